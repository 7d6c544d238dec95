package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/jamesainslie/fileprint/pkg/fileprint/output"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/spf13/cobra"
)

var (
	dupsIncludeEmpty bool
	dupsExisting     bool
	dupsFiles        bool
	dupsMatch        string
)

var dupsCmd = &cobra.Command{
	Use:   "dups [record-file...]",
	Short: "Report files with identical content",
	Long: `Dups groups records from one or more record files (or stdin) by MD5 digest
and prints every group with more than one member. Each member is prefixed with
the index of the record file it came from.

Empty files all share one digest and are left out unless --include-empty is set.
Symlinks are fingerprinted through the link, so a link and its target form a
group; --files keeps only paths that are regular files now.

Examples:
  fileprint dups old.txt new.txt
  fileprint dups --existing --match '\.jpe?g$' photos.txt`,
	RunE: runDups,
}

func init() {
	addDupsFlags(dupsCmd)
	rootCmd.AddCommand(dupsCmd)
}

func addDupsFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dupsIncludeEmpty, "include-empty", false, "report empty files as duplicates")
	cmd.Flags().BoolVarP(&dupsExisting, "existing", "e", false, "only paths that still exist")
	cmd.Flags().BoolVarP(&dupsFiles, "files", "f", false, "only regular files, not symlinks (implies --existing)")
	cmd.Flags().StringVarP(&dupsMatch, "match", "i", "", "only paths matching this regular expression")
}

// dupOptions builds the filter from the dups flags.
func dupOptions() (record.DupOptions, error) {
	opts := record.DupOptions{IncludeEmpty: dupsIncludeEmpty}

	var re *regexp.Regexp
	if dupsMatch != "" {
		var err error
		if re, err = regexp.Compile(dupsMatch); err != nil {
			return opts, fmt.Errorf("invalid --match pattern: %w", err)
		}
	}

	if re != nil || dupsExisting || dupsFiles {
		opts.Keep = func(rec *record.Record) bool {
			if re != nil && !re.MatchString(rec.Path) {
				return false
			}
			if !dupsExisting && !dupsFiles {
				return true
			}
			info, err := os.Lstat(rec.Path)
			if err != nil {
				return false
			}
			return !dupsFiles || info.Mode().IsRegular()
		}
	}
	return opts, nil
}

func runDups(cmd *cobra.Command, args []string) error {
	opts, err := dupOptions()
	if err != nil {
		return err
	}

	entries, err := readSources(cmd, args)
	if err != nil {
		return err
	}

	return writeGroups(cmd, record.Duplicates(entries, opts))
}

func writeGroups(cmd *cobra.Command, groups []record.Group) error {
	var buf bytes.Buffer
	output.WriteGroups(&buf, groups)
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	printVerbose(cmd, "%d duplicate groups", len(groups))
	return err
}
