package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seriesync/internal/catalog"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rename DIR NEW_NAME",
		Short: "Change a series' display name",
		Long: "Rewrites the series manifest so the series is known by NEW_NAME. " +
			"The directory is not moved; its old name keeps matching as an alias.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := catalog.ResolvePath(args[0])
			newName := strings.TrimSpace(args[1])
			if newName == "" {
				return fmt.Errorf("new name must not be empty")
			}
			log := ctx.log()
			cfg := ctx.configValue()

			// Pull existing metadata so aliases and flags survive the rename.
			loader := catalog.New(log, cfg.FileIgnoreRegexp())
			meta := catalog.Metadata{Name: newName}
			if existing := loader.LoadSeriesManifest(dir); existing != nil {
				meta.Aliases = existing.Aliases()
				meta.Group = existing.Group
				meta.Seasons = existing.Seasons
				meta.Disabled = existing.Disabled
			}

			cat := catalog.New(log, cfg.FileIgnoreRegexp())
			s, _ := cat.Create(dir, meta)
			s.MarkDirty()
			wrote, err := s.SaveManifest(true, dryRun)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Would rename %s to %q\n", dir, newName)
				return nil
			}
			if !wrote {
				return fmt.Errorf("manifest for %s was not written", dir)
			}
			fmt.Fprintf(out, "Renamed %s to %q\n", dir, newName)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show the rename without writing the manifest")
	return cmd
}
