package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"seriesync/internal/catalog"
	"seriesync/internal/config"
	"seriesync/internal/journal"
	"seriesync/internal/services/rsync"
	"seriesync/internal/syncer"
)

const lockFileName = ".seriesync.lock"

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun        bool
		createMissing bool
		overwrite     bool
		fullResync    bool
		keepVolume    bool
		giveUp        int
		minSize       int64
		noManifests   bool
		saveManifests bool
	)

	cmd := &cobra.Command{
		Use:   "sync [source] [dest]",
		Short: "Replicate missing chapters from source into dest",
		Long: "Scans both trees, infers series and chapters from names, and copies " +
			"every chapter present in source but absent from dest. Directories " +
			"default to [paths] in the configuration file.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			src := cfg.Paths.SourceDir
			dest := cfg.Paths.DestDir
			if len(args) > 0 {
				src = args[0]
			}
			if len(args) > 1 {
				dest = args[1]
			}
			if src == "" || dest == "" {
				return errors.New("source and destination directories required (arguments or [paths] in config)")
			}
			src = catalog.ResolvePath(src)
			dest = catalog.ResolvePath(dest)
			if err := config.ValidatePair(src, dest); err != nil {
				return err
			}
			log := ctx.log()

			lock := flock.New(filepath.Join(dest, lockFileName))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("lock destination: %w", err)
			}
			if !locked {
				return fmt.Errorf("destination %s is locked by another sync", dest)
			}
			defer func() {
				_ = lock.Unlock()
			}()

			opts := syncer.Options{
				DryRun:        dryRun,
				CreateMissing: createMissing || cfg.Sync.CreateMissing,
				Overwrite:     overwrite || cfg.Sync.Overwrite,
				FullResync:    fullResync,
				KeepVolume:    keepVolume || cfg.Sync.KeepVolume,
				GiveUp:        cfg.Sync.GiveUp,
				MinSize:       cfg.Sync.MinSize,
				SourceIgnore:  cfg.SourceIgnoreRegexp(),
				FileIgnore:    cfg.FileIgnoreRegexp(),
			}
			if cmd.Flags().Changed("give-up") {
				opts.GiveUp = giveUp
			}
			if cmd.Flags().Changed("min-size") {
				opts.MinSize = minSize
			}
			loadManifests := cfg.Manifests.Load && !noManifests

			scanStart := time.Now()
			srcCatalog := catalog.New(log, opts.FileIgnore)
			sources, err := catalog.NewScanner(srcCatalog, log, loadManifests).Discover(src, dest)
			if err != nil {
				return err
			}
			destCatalog := catalog.New(log, opts.FileIgnore)
			dests, err := catalog.NewScanner(destCatalog, log, loadManifests).Discover(dest, src)
			if err != nil {
				return err
			}
			scanElapsed := time.Since(scanStart).Round(time.Millisecond)
			log.Info("scanned trees", "sources", len(sources), "destinations", len(dests), "elapsed", scanElapsed)

			var repl syncer.Replicator
			client, err := rsync.New(cfg.RsyncBinary(), opts.MinSize, time.Duration(cfg.Rsync.Timeout)*time.Second)
			if err != nil {
				log.Warn("bulk copy disabled", "error", err)
			} else {
				repl = client
			}

			engine := syncer.New(log, opts, repl)
			report := engine.Run(cmd.Context(), sources, dests, destCatalog, dest)

			recordRun(cmd.Context(), ctx, report, src, dest)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %d source and %d destination series in %s\n",
				len(sources), len(dests), scanElapsed)
			printReport(out, report)
			printScanErrors(out, srcCatalog, destCatalog)

			if cfg.Manifests.Save || saveManifests {
				if err := destCatalog.SaveDirectoryManifests(dest, dryRun); err != nil {
					log.Error("save manifests", "error", err)
				}
			}

			// Individual sync failures are reported, never fatal to the
			// command; only configuration problems exit non-zero.
			if n := report.FatalFailureCount(); n > 0 {
				fmt.Fprintf(out, "Aborted %d series; see log for details\n", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be copied without writing")
	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create destination directories for unmatched series")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace destination chapters on conflict")
	cmd.Flags().BoolVar(&fullResync, "full", false, "Revisit series even when the destination is already covered")
	cmd.Flags().BoolVar(&keepVolume, "keep-volume", false, "Keep volume markers in replicated file names")
	cmd.Flags().IntVar(&giveUp, "give-up", 0, "Per-series conflict budget before giving up")
	cmd.Flags().Int64Var(&minSize, "min-size", 0, "Smallest file worth copying, in bytes")
	cmd.Flags().BoolVar(&noManifests, "no-manifests", false, "Ignore series.toml / directory.toml while scanning")
	cmd.Flags().BoolVar(&saveManifests, "save-manifests", false, "Rewrite destination directory manifests after the run")
	return cmd
}

// recordRun persists the outcome to the journal; failures are logged, never
// fatal, so a broken journal cannot block syncing.
func recordRun(ctx context.Context, cc *commandContext, report *syncer.Report, src, dest string) {
	cfg := cc.configValue()
	if cfg == nil || cfg.Paths.JournalPath == "" {
		return
	}
	store, err := journal.Open(cfg.Paths.JournalPath)
	if err != nil {
		cc.log().Warn("open journal", "error", err)
		return
	}
	defer store.Close()

	run := journal.Run{
		ID:            report.RunID,
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		Source:        src,
		Dest:          dest,
		SeriesSynced:  report.SeriesSynced(),
		FilesCopied:   report.TotalFiles(),
		BytesCopied:   report.TotalBytes(),
		SoftFailures:  report.SoftFailureCount(),
		FatalFailures: report.FatalFailureCount(),
		DryRun:        report.DryRun,
	}
	if err := store.RecordRun(ctx, run); err != nil {
		cc.log().Warn("record run", "error", err)
	}
}

func printReport(out io.Writer, report *syncer.Report) {
	if report.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was written")
	}

	rows := make([][]string, 0, len(report.Pairs))
	for _, pair := range report.Pairs {
		if pair.Skipped && len(pair.Missing) == 0 {
			continue
		}
		status := "ok"
		switch {
		case pair.Fatal != "":
			status = "aborted"
		case len(pair.SoftFailures) > 0 && pair.Copied == 0:
			status = "gave up"
		case len(pair.SoftFailures) > 0:
			status = "partial"
		case pair.Created:
			status = "created"
		}
		rows = append(rows, []string{
			pair.Source,
			strconv.Itoa(len(pair.Missing)),
			strconv.Itoa(pair.Copied),
			strconv.Itoa(pair.Files),
			humanSize(pair.Bytes),
			status,
		})
	}
	if len(rows) > 0 {
		headers := []string{"Series", "Missing", "Copied", "Files", "Size", "Status"}
		aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
	} else {
		fmt.Fprintln(out, "All destinations up to date")
	}

	if len(report.Unmatched) > 0 {
		fmt.Fprintf(out, "No destination for: %s\n", joinNames(report.Unmatched))
	}
	fmt.Fprintf(out, "Synced %d series, %d files, %s in %s\n",
		report.SeriesSynced(), report.TotalFiles(), humanSize(report.TotalBytes()),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	if n := report.SoftFailureCount(); n > 0 {
		fmt.Fprintf(out, "Conflicts: %d\n", n)
	}
}

func printScanErrors(out io.Writer, catalogs ...*catalog.Catalog) {
	for _, cat := range catalogs {
		for bucket, paths := range cat.AllErrors() {
			fmt.Fprintf(out, "%s skipped %d:\n", bucket, len(paths))
			for _, path := range paths {
				fmt.Fprintf(out, "  %s\n", path)
			}
		}
	}
}
