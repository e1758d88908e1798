package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seriesync/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg.Paths.JournalPath == "" {
				return errors.New("paths.journal_path is not configured")
			}
			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
					run.Source,
					run.Dest,
					strconv.Itoa(run.SeriesSynced),
					strconv.Itoa(run.FilesCopied),
					humanSize(run.BytesCopied),
					strconv.Itoa(run.SoftFailures + run.FatalFailures),
					yesNo(run.DryRun),
				})
			}
			headers := []string{"Started", "Took", "Source", "Dest", "Series", "Files", "Size", "Failures", "Dry run"}
			aligns := []columnAlignment{
				alignLeft, alignRight, alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight, alignLeft,
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
