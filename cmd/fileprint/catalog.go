package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jamesainslie/fileprint/pkg/fileprint/catalog"
	"github.com/jamesainslie/fileprint/pkg/fileprint/export"
	"github.com/jamesainslie/fileprint/pkg/fileprint/record"
	"github.com/spf13/cobra"
)

var catalogForce bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Keep fingerprints in a persistent catalog",
	Long: `The catalog stores fingerprint records keyed by absolute path so repeated runs
over the same files only read files whose timestamps moved.

The catalog lives in $XDG_DATA_HOME/fileprint/catalog unless catalog.path is
set. Records are always stored with file times and printed in the configured
layout.`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Fingerprint files and store the records",
	Long: `Add fingerprints each file and stores the record. When the catalog already has
a record for the file and its mtime and ctime are unchanged (see
catalog.reuse_mtime and catalog.reuse_ctime), the stored record is printed
without reading the file. --force always reads.

Exit statuses match the fingerprint command; processing stops at the first
failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogAdd,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the stored record for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

var catalogListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "Print stored records under a path prefix",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogList,
}

var catalogDupsCmd = &cobra.Command{
	Use:   "dups",
	Short: "Report stored files with identical content",
	Args:  cobra.NoArgs,
	RunE:  runCatalogDups,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <file>...",
	Short: "Delete stored records",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogRemove,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <db.sqlite>",
	Short: "Write every stored record to a SQLite database",
	Long: `Export upserts every stored record into the fingerprints table of a SQLite
database and records the batch id, export time, entry count and layout in its
meta table. Records are written in the configured layout.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogExport,
}

var catalogPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the catalog directory",
	Args:  cobra.NoArgs,
	RunE:  runCatalogPath,
}

var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored record",
	Args:  cobra.NoArgs,
	RunE:  runCatalogClear,
}

func init() {
	catalogAddCmd.Flags().BoolVarP(&catalogForce, "force", "f", false, "read files even when stored times match")
	addDupsFlags(catalogDupsCmd)

	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogDupsCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogPathCmd)
	catalogCmd.AddCommand(catalogClearCmd)
	rootCmd.AddCommand(catalogCmd)
}

// openCatalog opens the configured catalog. The caller runs the returned
// close function.
func openCatalog(cmd *cobra.Command) (*catalog.Catalog, func(), error) {
	path, err := cfg.CatalogPath()
	if err != nil {
		return nil, nil, err
	}

	store, err := catalog.OpenStore(path)
	if err != nil {
		return nil, nil, err
	}

	eng, err := newEngine()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	policy := catalog.ReusePolicy{Mtime: cfg.Catalog.ReuseMtime, Ctime: cfg.Catalog.ReuseCtime}
	closeFn := func() {
		if err := store.Close(); err != nil {
			printError(cmd, "closing catalog: %v", err)
		}
	}
	return catalog.New(store, eng, policy), closeFn, nil
}

// inLayout converts stored v2 records to the configured layout.
func inLayout(recs []*record.Record) ([]*record.Record, error) {
	layout, err := cfg.RecordLayout()
	if err != nil {
		return nil, err
	}
	out := make([]*record.Record, len(recs))
	for i, rec := range recs {
		if out[i], err = rec.Convert(layout); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func printStored(cmd *cobra.Command, recs []*record.Record) error {
	recs, err := inLayout(recs)
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), recs)
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	var recs []*record.Record
	var failure error
	reused := 0
	for _, path := range args {
		res, err := cat.Add(path, catalogForce)
		if err != nil {
			if mapped := fingerprintError(path, err); mapped != nil {
				failure = mapped
				break
			}
			printVerbose(cmd, "%s has no file content, skipped", path)
			continue
		}
		if res.Reused {
			reused++
		}
		recs = append(recs, res.Record)
	}

	if err := printStored(cmd, recs); err != nil {
		return err
	}
	printVerbose(cmd, "%d stored, %d reused without reading", len(recs)-reused, reused)
	return failure
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := cat.Show(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return printStored(cmd, []*record.Record{rec})
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	recs, err := cat.List(prefix)
	if err != nil {
		return err
	}

	var total uint64
	for _, rec := range recs {
		total += rec.Census.Bytes
	}
	printVerbose(cmd, "%s records, %s", humanize.Comma(int64(len(recs))), humanize.IBytes(total))

	return printStored(cmd, recs)
}

func runCatalogDups(cmd *cobra.Command, args []string) error {
	opts, err := dupOptions()
	if err != nil {
		return err
	}

	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	groups, err := cat.Duplicates(opts)
	if err != nil {
		return err
	}
	return writeGroups(cmd, groups)
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, path := range args {
		if err := cat.Remove(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		printVerbose(cmd, "removed %s", path)
	}
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	layout, err := cfg.RecordLayout()
	if err != nil {
		return err
	}

	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	recs, err := cat.List("")
	if err != nil {
		return err
	}

	db, err := export.Open(args[0])
	if err != nil {
		return err
	}
	defer db.Close()

	batch, err := db.Write(cmd.Context(), recs, layout)
	if err != nil {
		return err
	}

	printInfo(cmd, "Exported %s records to %s (batch %s)", humanize.Comma(int64(batch.Count)), args[0], batch.ID)
	return nil
}

func runCatalogPath(cmd *cobra.Command, args []string) error {
	path, err := cfg.CatalogPath()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runCatalogClear(cmd *cobra.Command, args []string) error {
	cat, closeFn, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	n, err := cat.Store().Count()
	if err != nil {
		return err
	}
	if err := cat.Store().Clear(); err != nil {
		return err
	}

	printInfo(cmd, "Cleared %s records from %s", humanize.Comma(int64(n)), cat.Store().Path())
	return nil
}
