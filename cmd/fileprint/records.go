package main

import (
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/spf13/cobra"
)

// readSources reads every record from the named files, or stdin when none
// are named, and tags each with the 1-based index of its source.
func readSources(cmd *cobra.Command, names []string) ([]record.Entry, error) {
	sources, err := stdinOr(names)
	if err != nil {
		return nil, err
	}
	defer closeAll(sources)

	var entries []record.Entry
	for i, src := range sources {
		idx := i + 1
		err := record.Scan(src.r, src.name, func(rec *record.Record) error {
			entries = append(entries, record.Entry{Source: idx, Record: rec})
			return nil
		})
		if err != nil {
			return nil, err
		}
		printVerbose(cmd, "read %s", src.name)
	}
	return entries, nil
}

// recordsOf drops the source tags.
func recordsOf(entries []record.Entry) []*record.Record {
	out := make([]*record.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record
	}
	return out
}
