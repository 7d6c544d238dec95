package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/fileprint/pkg/fileprint/config"
	"github.com/jamesainslie/fileprint/pkg/fileprint/engine"
	"github.com/jamesainslie/fileprint/pkg/fileprint/fingerprint"
	"github.com/jamesainslie/fileprint/pkg/fileprint/output"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config

	rootCmd = &cobra.Command{
		Use:   "fileprint <file>",
		Short: "Fingerprint a file's content and metadata",
		Long: `Fileprint reads one file and prints a single record line with its MD5 and
SHA1 digests, a byte census (binary bytes, lines, total bytes) and, in the v2
layout, its access, change and modification times.

Record lines are meant to be appended to checksum files by backup and
integrity scripts. A symlink is fingerprinted through the link but keeps the
link's own times. Directories, devices and other paths without content print
nothing and exit 0.

Exit status:
  0   record printed, or path has no file content
  1   no file name given
  2   file could not be stat'ed (message on stdout)
  10  open failed
  11  read failed
  13  close failed

A lone argument that names an existing file fingerprints it even when a
subcommand has the same name. "fileprint -- <file>" forces the same.

Examples:
  fileprint /etc/hosts                 # v2 record line
  fileprint --layout v1 /etc/hosts     # v1 record line, no file times
  fileprint -o pretty /etc/hosts       # styled view of the same record
  fileprint verify sums.txt            # recheck recorded files
  fileprint catalog add ~/photos/a.jpg # fingerprint and store`,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE:              runFingerprint,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/fileprint/config.yaml)")
	rootCmd.PersistentFlags().StringP("layout", "l", "", "record layout: v1 or v2")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: "+formatList())
	rootCmd.PersistentFlags().String("block-size", "", "read size per chunk (e.g., 128KiB)")
	rootCmd.PersistentFlags().String("template", "", "Go template for --output template")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")

	_ = viper.BindPFlag("layout", rootCmd.PersistentFlags().Lookup("layout"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("block_size", rootCmd.PersistentFlags().Lookup("block-size"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig points viper at the config file and environment.
func initConfig() {
	config.Prepare(viper.GetViper(), cfgFile)
}

// loadConfig reads and validates the configuration, then starts logging.
// It runs before every command.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Read(viper.GetViper())
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	if err := initializeLogging(cmd, args); err != nil {
		printVerbose(cmd, "logging disabled: %v", err)
	}
	return nil
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(fileArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	closeLogging()
	return report(err, stdout, stderr)
}

// fileArgs routes a lone argument that names both a subcommand and an
// existing path to the fingerprint command, so "fileprint version" in a
// directory holding a file called version prints that file's record.
// "fileprint -- NAME" does the same explicitly.
func fileArgs(args []string) []string {
	if len(args) != 1 || !isCommandName(args[0]) {
		return args
	}
	if _, err := os.Lstat(args[0]); err != nil {
		return args
	}
	return []string{"--", args[0]}
}

// isCommandName reports whether name selects a subcommand of the root.
// help and completion are added by cobra at execution time.
func isCommandName(name string) bool {
	switch name {
	case "help", "completion":
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// runFingerprint prints the record for the first argument. Further
// arguments are ignored.
func runFingerprint(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return usageError()
	}
	path := args[0]

	fp, err := newFingerprinter()
	if err != nil {
		return err
	}

	rec, err := fp.File(path)
	if err != nil {
		if mapped := fingerprintError(path, err); mapped != nil {
			return mapped
		}
		printVerbose(cmd, "%s has no file content, nothing to print", path)
		return nil
	}

	return writeRecords(cmd.OutOrStdout(), []*record.Record{rec})
}

// engineOptions are applied after the configured block size.
var engineOptions []engine.Option

// newEngine builds an engine with the configured block size.
func newEngine() (*engine.Engine, error) {
	size, err := cfg.BlockBytes()
	if err != nil {
		return nil, err
	}
	opts := append([]engine.Option{engine.WithBlockSize(size)}, engineOptions...)
	return engine.New(opts...), nil
}

// newFingerprinter builds a fingerprinter with the configured layout.
func newFingerprinter() (*fingerprint.Fingerprinter, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, err
	}
	layout, err := cfg.RecordLayout()
	if err != nil {
		return nil, err
	}
	return fingerprint.New(fingerprint.WithEngine(eng), fingerprint.WithLayout(layout)), nil
}

// formatter returns the configured output formatter.
func formatter() (output.Formatter, error) {
	name := cfg.Output
	if name == "" {
		name = config.DefaultOutput
	}

	f, err := output.Get(name)
	if err != nil {
		return nil, err
	}
	if tf, ok := f.(*output.TemplateFormatter); ok {
		if tmpl := viper.GetString("template"); tmpl != "" {
			tf.SetTemplate(tmpl)
		}
	}
	return f, nil
}

// writeRecords formats recs with the configured formatter and writes them
// in one call.
func writeRecords(w io.Writer, recs []*record.Record) error {
	f, err := formatter()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, &output.Result{Records: recs}); err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func formatList() string {
	var buf bytes.Buffer
	for i, name := range output.Available() {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(name)
	}
	return buf.String()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if getVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a status message on stderr so stdout only carries
// records.
func printInfo(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

// printError prints an error message to stderr.
func printError(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: "+format+"\n", args...)
}

// stdinOr returns the named files opened for reading, or stdin when names
// is empty. The caller closes the returned files.
func stdinOr(names []string) ([]namedReader, error) {
	if len(names) == 0 {
		return []namedReader{{name: "-", r: os.Stdin}}, nil
	}

	out := make([]namedReader, 0, len(names))
	for _, name := range names {
		if name == "-" {
			out = append(out, namedReader{name: "-", r: os.Stdin})
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			closeAll(out)
			return nil, err
		}
		out = append(out, namedReader{name: name, r: f, c: f})
	}
	return out, nil
}

type namedReader struct {
	name string
	r    io.Reader
	c    io.Closer
}

func closeAll(rs []namedReader) {
	for _, r := range rs {
		if r.c != nil {
			_ = r.c.Close()
		}
	}
}
