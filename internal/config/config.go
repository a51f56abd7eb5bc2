// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates strategy configurations. Loading
// accepts YAML or JSON by file extension. Validation is lint-style: it
// reports hard errors (the resolver would misbehave) separately from
// warnings (the configuration is suspicious but resolvable).
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sourcelink/pkg/types"
)

// Load reads a StrategyConfig from path. Files ending in .json are
// parsed as JSON; everything else is parsed as YAML.
func Load(path string) (*types.StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading strategy config %s: %w", path, err)
	}

	var cfg types.StrategyConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing strategy config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing strategy config %s: %w", path, err)
		}
	}

	return &cfg, nil
}

// extensionRe matches a plausible file extension entry, with or without
// a leading dot.
var extensionRe = regexp.MustCompile(`^\.?[A-Za-z0-9]+$`)

// Validate checks a strategy configuration and returns hard errors and
// warnings. A configuration with no errors is safe to hand to the
// resolver; warnings flag likely operator mistakes such as dangling
// default/fallback references.
func Validate(cfg *types.StrategyConfig) (errors, warnings []string) {
	if cfg == nil {
		return []string{"no configuration supplied"}, nil
	}

	if cfg.Version == "" {
		warnings = append(warnings, "missing schema version")
	}

	names := make(map[string]bool)
	enabledCount := 0
	for i := range cfg.Strategies {
		s := &cfg.Strategies[i]
		context := fmt.Sprintf("strategies[%d]", i)
		if s.Name != "" {
			context = fmt.Sprintf("strategies[%d] (%s)", i, s.Name)
		}

		if s.Name == "" {
			errors = append(errors, context+": 'name' is required")
		} else if names[s.Name] {
			errors = append(errors, context+": duplicate strategy name")
		}
		names[s.Name] = true

		if s.Enabled {
			enabledCount++
		}

		if !s.Type.Known() {
			errors = append(errors, fmt.Sprintf("%s: unknown strategy type %q", context, s.Type))
		}

		switch {
		case s.BaseURL == "" && s.Type != types.TypeDefault:
			errors = append(errors, context+": 'base_url' is required for type "+string(s.Type))
		case s.BaseURL != "":
			if u, err := url.Parse(s.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errors = append(errors, fmt.Sprintf("%s: 'base_url' %q is not an absolute http(s) URL", context, s.BaseURL))
			}
		}

		if s.Priority < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: negative priority %d", context, s.Priority))
		}

		for _, ext := range s.FileExtensions {
			if !extensionRe.MatchString(ext) {
				warnings = append(warnings, fmt.Sprintf("%s: malformed file extension %q", context, ext))
			}
		}

		for _, pattern := range s.PathPatterns {
			if strings.TrimSpace(pattern) == "" {
				warnings = append(warnings, context+": empty path pattern")
			}
		}

		if s.Authentication != nil && !s.Authentication.RequiresAuth && len(s.Authentication.AdditionalHeaders) > 0 {
			warnings = append(warnings, context+": additional headers are ignored without requires_auth")
		}
	}

	warnings = append(warnings, checkReference(cfg, "default_strategy", cfg.DefaultStrategy)...)
	warnings = append(warnings, checkReference(cfg, "fallback_strategy", cfg.FallbackStrategy)...)

	if cfg.LegacyBaseURL != "" {
		if u, err := url.Parse(cfg.LegacyBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("'legacy_base_url' %q is not an absolute http(s) URL", cfg.LegacyBaseURL))
		}
	}

	if len(cfg.Strategies) > 0 && enabledCount == 0 {
		warnings = append(warnings, "no strategies are enabled; every citation will resolve through the fallback path")
	}

	return errors, warnings
}

// checkReference warns about default/fallback names that do not point
// at an enabled strategy. Dangling references are not errors: the
// resolver silently ignores them.
func checkReference(cfg *types.StrategyConfig, field, name string) []string {
	if name == "" {
		return nil
	}
	s := cfg.Strategy(name)
	if s == nil {
		return []string{fmt.Sprintf("'%s' references unknown strategy %q", field, name)}
	}
	if !s.Enabled {
		return []string{fmt.Sprintf("'%s' references disabled strategy %q", field, name)}
	}
	return nil
}
