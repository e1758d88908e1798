package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"seriesync/internal/catalog"
)

func newErrorsCommand(ctx *commandContext) *cobra.Command {
	var noManifests bool

	cmd := &cobra.Command{
		Use:   "errors [dir]",
		Short: "List files the scanner could not place",
		Long: "Scans a tree and prints every file that was filtered by the ignore " +
			"pattern or whose name the chapter parser rejected.",
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
			if _, err := catalog.NewScanner(cat, log, loadManifests).Discover(root); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			all := cat.AllErrors()
			if len(all) == 0 {
				fmt.Fprintln(out, "No scan errors")
				return nil
			}
			buckets := make([]string, 0, len(all))
			for bucket := range all {
				buckets = append(buckets, bucket)
			}
			sort.Strings(buckets)
			for _, bucket := range buckets {
				fmt.Fprintf(out, "%s (%d):\n", bucket, len(all[bucket]))
				for _, path := range all[bucket] {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noManifests, "no-manifests", false, "Ignore series.toml / directory.toml while scanning")
	return cmd
}
