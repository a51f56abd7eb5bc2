// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sourcelink CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sourcelink/internal/config"
	"github.com/pdiddy/sourcelink/internal/resolver"
	"github.com/pdiddy/sourcelink/internal/secrets"
	"github.com/pdiddy/sourcelink/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at
// startup, used for auth header placeholder expansion.
var loadedSecrets map[string]string

// rootCmd is the base command for the sourcelink CLI.
var rootCmd = &cobra.Command{
	Use:   "sourcelink",
	Short: "Resolve chat citations to authoritative source-document URLs",
	Long: `sourcelink is the citation plumbing for a RAG chat deployment. Given
citation tokens emitted by the retrieval/generation backend and a declarative
strategy configuration, it resolves each token to an authoritative, possibly
authenticated URL back to the source document.

Subcommands cover the surrounding workflow: extract citation markers from an
answer, validate a strategy configuration, fetch a resolved document, and
inspect the resolution history.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sourcelink.yaml or ~/.config/sourcelink/config.yaml)")
	rootCmd.PersistentFlags().String("strategies", "", "strategy configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of credential files for auth header expansion")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sourcelink")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sourcelink"))
		}
	}

	viper.SetDefault("telemetry_db", "sourcelink.db")

	viper.SetEnvPrefix("SOURCELINK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newResolver builds a resolver from the application configuration.
func newResolver() *resolver.Resolver {
	r := resolver.New()
	if v := viper.GetString("content_endpoint"); v != "" {
		r.ContentEndpoint = v
	}
	r.LegacyBaseURL = viper.GetString("legacy_base_url")
	return r
}

// loadStrategies reads the strategy configuration named by the
// --strategies flag or the strategies key in the app config. A missing
// setting is not an error: resolution degrades to the legacy path.
func loadStrategies(cmd *cobra.Command) (*types.StrategyConfig, error) {
	path, _ := cmd.Flags().GetString("strategies")
	if path == "" {
		path = viper.GetString("strategies")
	}
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
