// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sourcelink/internal/telemetry"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [token]",
	Short: "Resolve a citation token to a source-document URL",
	Long: `Resolve maps one citation token to an authoritative URL using the
configured strategies. Without a strategy configuration the token resolves
through the legacy content endpoint. The URL is printed on stdout; strategy
and auth details go to stderr unless --json is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringArray("metadata", nil, "extra metadata entry as key=value (repeatable)")
	resolveCmd.Flags().Bool("json", false, "output the full result as JSON")
	resolveCmd.Flags().Bool("record", false, "record the resolution in the telemetry database")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadStrategies(cmd)
	if err != nil {
		return err
	}

	pairs, _ := cmd.Flags().GetStringArray("metadata")
	extra, err := parseMetadata(pairs)
	if err != nil {
		return err
	}

	result := newResolver().Resolve(args[0], cfg, extra)

	if record, _ := cmd.Flags().GetBool("record"); record {
		store, err := telemetry.Open(viper.GetString("telemetry_db"))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Record(cmd.Context(), telemetry.EventFromResult(result)); err != nil {
			return err
		}
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(result)
	}

	fmt.Println(result.URL)
	fmt.Fprintf(os.Stderr, "strategy: %s\n", result.StrategyUsed)
	if result.RequiresAuth {
		fmt.Fprintln(os.Stderr, "authentication required")
	}
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", result.Error)
	}
	return nil
}

func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	extra := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q, want key=value", pair)
		}
		extra[key] = value
	}
	return extra, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
