package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seriesync/internal/catalog"
	"seriesync/internal/ranges"
)

func newGapsCommand(ctx *commandContext) *cobra.Command {
	var noManifests bool

	cmd := &cobra.Command{
		Use:   "gaps [dir]",
		Short: "List chapter gaps within each series",
		Long: "Scans a tree and reports, per series, the chapter numbers missing " +
			"from its own range, assuming chapter 1 as the floor.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			root := cfg.Paths.SourceDir
			if len(args) > 0 {
				root = args[0]
			}
			if root == "" {
				return errors.New("directory required (argument or paths.source_dir in config)")
			}
			log := ctx.log()

			cat := catalog.New(log, cfg.FileIgnoreRegexp())
			loadManifests := cfg.Manifests.Load && !noManifests
			series, err := catalog.NewScanner(cat, log, loadManifests).Discover(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(series))
			for _, s := range cat.All() {
				gaps := s.Gaps()
				if len(gaps) == 0 {
					continue
				}
				rows = append(rows, []string{
					s.Name,
					strconv.Itoa(s.ChapterCount()),
					gapList(s),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No gaps found")
				return nil
			}
			headers := []string{"Series", "Chapters", "Missing"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noManifests, "no-manifests", false, "Ignore series.toml / directory.toml while scanning")
	return cmd
}

func gapList(s *catalog.Series) string {
	spans := ranges.Condense(s.Gaps())
	parts := make([]string, 0, len(spans))
	for _, sp := range spans {
		parts = append(parts, sp.String())
	}
	return strings.Join(parts, ", ")
}
