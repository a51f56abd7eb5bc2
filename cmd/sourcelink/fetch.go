package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcelink/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [token]",
	Short: "Resolve a citation token and download the document",
	Long: `Fetch resolves the token like the resolve command, then dereferences
the URL with the winning strategy's auth headers attached (secret
placeholders expanded from the secrets directory). The document body is
written to --output, or stdout when unset.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("output", "", "write the document to this file instead of stdout")
	fetchCmd.Flags().Int("max-retries", 0, "maximum retries on HTTP 429 (default 5)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadStrategies(cmd)
	if err != nil {
		return err
	}

	result := newResolver().Resolve(args[0], cfg, nil)
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", result.Error)
	}
	fmt.Fprintf(os.Stderr, "fetching %s (strategy: %s)\n", result.URL, result.StrategyUsed)

	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	fetcher := &fetch.Fetcher{MaxRetries: maxRetries, Secrets: loadedSecrets}

	resp, err := fetcher.Fetch(cmd.Context(), result)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: HTTP %s", result.URL, resp.Status)
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if out != os.Stdout {
		fmt.Fprintf(os.Stderr, "wrote %d bytes\n", n)
	}
	return nil
}
