// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcelink/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate a strategy configuration file",
	Long: `Validate loads a strategy configuration and reports hard errors and
warnings. Errors mean the resolver would misbehave (duplicate names, bad
URLs); warnings flag likely operator mistakes such as dangling default or
fallback references. The command fails when any error is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	errors, warnings := config.Validate(cfg)

	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range errors {
		fmt.Printf("error: %s\n", e)
	}

	if len(errors) > 0 {
		return fmt.Errorf("%d error(s) in %s", len(errors), args[0])
	}

	fmt.Printf("%s: %d strategies, %d warning(s)\n", args[0], len(cfg.Strategies), len(warnings))
	return nil
}
