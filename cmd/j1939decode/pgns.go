package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pgnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pgns",
		Short: "List the PGNs known to the metadata files",
		Long: `List every PGN in the metadata, in ascending order, with its label,
acronym and SPN count.

Examples:
  j1939decode pgns --pgns pgns.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts options
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.pgns, _ = cmd.Flags().GetString("pgns")
			opts.spns, _ = cmd.Flags().GetString("spns")
			opts.logFile, _ = cmd.Flags().GetString("log-file")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			tables, cleanup, err := setup(cmd.Context(), cfg)
			defer cleanup()
			if err != nil {
				return err
			}
			if tables.IsEmpty() {
				return fmt.Errorf("no metadata loaded; pass --pgns or --config")
			}

			out := cmd.OutOrStdout()
			for _, pgn := range tables.PGNs() {
				info, _ := tables.PGN(pgn)
				fmt.Fprintf(out, "%d (0x%X) %s (%s), %d SPNs\n", pgn, pgn, info.Label, info.Acronym, len(info.SPNs))
			}
			return nil
		},
	}
}
