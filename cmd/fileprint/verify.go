package main

import (
	"bytes"

	"github.com/jamesainslie/fileprint/pkg/fileprint/output"
	"github.com/jamesainslie/fileprint/pkg/fileprint/verify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [record-file...]",
	Short: "Recheck files listed in record files",
	Long: `Verify reads record lines from the given files (or stdin), fingerprints
each listed path again and compares digests and counters. File times are not
compared.

Each record prints one line: OK, CHANGED, MISSING, SKIPPED or ERROR followed by
the path. A summary is printed on stderr.

Exit status:
  0   every record is OK or SKIPPED
  20  at least one record CHANGED or is MISSING
  21  at least one file could not be read
  22  a record file is unreadable or malformed

Examples:
  fileprint verify sums.txt
  find /data -type f -exec fileprint {} \; > sums.txt && fileprint verify < sums.txt`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	entries, err := readSources(cmd, args)
	if err != nil {
		return &exitError{code: verify.ExitMalformed, msg: "ERROR: " + err.Error(), err: err}
	}

	fp, err := newFingerprinter()
	if err != nil {
		return err
	}

	styled := viper.GetString("output") == "pretty"
	out := cmd.OutOrStdout()

	summary := verify.New(fp).Run(recordsOf(entries), func(o verify.Outcome) {
		var buf bytes.Buffer
		output.WriteOutcome(&buf, o, styled)
		_, _ = out.Write(buf.Bytes())
	})

	var buf bytes.Buffer
	output.WriteSummary(&buf, summary)
	_, _ = cmd.ErrOrStderr().Write(buf.Bytes())

	if code := summary.ExitCode(); code != verify.ExitOK {
		return silentExit(code)
	}
	return nil
}
