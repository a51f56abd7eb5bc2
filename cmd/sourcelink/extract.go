// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcelink/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [answer-file]",
	Short: "Extract citation markers from a generated answer",
	Long: `Extract scans a generated answer for bracket-delimited citation markers
and keeps only those naming a recorded source identifier (the marker must be
a prefix of one). Source identifiers come from --source flags or one per
line in a --sources-file.

With --resolve, each marker's token is also resolved to a URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringArray("source", nil, "recorded source identifier (repeatable)")
	extractCmd.Flags().String("sources-file", "", "file with one source identifier per line")
	extractCmd.Flags().Bool("resolve", false, "resolve each marker's token to a URL")
	extractCmd.Flags().Bool("json", false, "output markers as JSON")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	answer, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading answer file: %w", err)
	}

	sources, _ := cmd.Flags().GetStringArray("source")
	if path, _ := cmd.Flags().GetString("sources-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading sources file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				sources = append(sources, line)
			}
		}
	}

	markers := extract.Markers(string(answer), sources)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		return printJSON(markers)
	}

	doResolve, _ := cmd.Flags().GetBool("resolve")
	cfg, cfgErr := loadStrategies(cmd)
	if doResolve && cfgErr != nil {
		return cfgErr
	}

	for _, m := range markers {
		if doResolve {
			result := newResolver().Resolve(m.Token, cfg, nil)
			fmt.Printf("%s\t%s\t%s\n", m.Token, result.StrategyUsed, result.URL)
			continue
		}
		fmt.Printf("%s\t%s\n", m.Token, m.SourceID)
	}
	if len(markers) == 0 {
		fmt.Fprintln(os.Stderr, "no citation markers found")
	}
	return nil
}
