// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sourcelink/internal/telemetry"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded resolutions",
	Long: `History lists resolutions recorded with 'resolve --record', newest
first. With --summary it prints per-strategy counts instead, along with how
many resolutions required authentication or degraded with an error.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries to list")
	historyCmd.Flags().Bool("summary", false, "print per-strategy counts instead of entries")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := telemetry.Open(viper.GetString("telemetry_db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		s, err := store.Summarize(cmd.Context())
		if err != nil {
			return err
		}

		names := make([]string, 0, len(s.ByStrategy))
		for name := range s.ByStrategy {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-24s %d\n", name, s.ByStrategy[name])
		}
		fmt.Printf("\ntotal: %d, auth required: %d, errors: %d\n", s.Total, s.AuthRequired, s.Errors)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	events, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	for _, ev := range events {
		line := fmt.Sprintf("%s  %-20s %s", ev.Time.Format(time.RFC3339), ev.StrategyUsed, ev.Citation)
		if ev.Error != "" {
			line += "  (error: " + ev.Error + ")"
		}
		fmt.Println(line)
	}
	if len(events) == 0 {
		fmt.Println("no recorded resolutions")
	}
	return nil
}
