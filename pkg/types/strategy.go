// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for citation-strategy
// resolution: strategy definitions, the per-session strategy
// configuration, and the per-citation resolution result.
package types

// StrategyType selects the URL-construction shape for a strategy.
type StrategyType string

const (
	TypeSharePoint  StrategyType = "sharepoint"
	TypeBlobStorage StrategyType = "blob_storage"
	TypeFileServer  StrategyType = "file_server"
	TypeCMS         StrategyType = "cms"
	TypeCustomURL   StrategyType = "custom_url"
	TypeDefault     StrategyType = "default"
)

// KnownStrategyTypes lists every recognized strategy type, in the order
// they are documented.
var KnownStrategyTypes = []StrategyType{
	TypeSharePoint, TypeBlobStorage, TypeFileServer,
	TypeCMS, TypeCustomURL, TypeDefault,
}

// Known reports whether t is one of the recognized strategy types.
func (t StrategyType) Known() bool {
	for _, k := range KnownStrategyTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Authentication describes how a strategy's documents are protected.
type Authentication struct {
	// RequiresAuth marks the strategy's URLs as requiring credentials.
	RequiresAuth bool `json:"requires_auth" yaml:"requires_auth"`

	// AdditionalHeaders are attached to the document fetch when
	// RequiresAuth is set. Values may contain ${name} placeholders
	// resolved from the secrets directory at fetch time.
	AdditionalHeaders map[string]string `json:"additional_headers,omitempty" yaml:"additional_headers,omitempty"`
}

// StrategyDefinition is a named rule describing how to resolve citation
// tokens against one external content source.
type StrategyDefinition struct {
	// Name uniquely identifies the strategy within a StrategyConfig.
	// Default and fallback references use this name.
	Name string `json:"name" yaml:"name"`

	// Type determines the URL-construction shape.
	Type StrategyType `json:"type" yaml:"type"`

	// BaseURL is the root URL resolved paths are prefixed with.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Enabled strategies participate in selection; disabled ones never do.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Priority orders matching strategies; higher wins. Ties are broken
	// by position in the strategy list.
	Priority int `json:"priority" yaml:"priority"`

	// FileExtensions restricts the strategy to tokens with one of these
	// extensions (case-insensitive, leading dot optional). Empty means
	// any extension is accepted.
	FileExtensions []string `json:"file_extensions,omitempty" yaml:"file_extensions,omitempty"`

	// PathPatterns restricts the strategy to tokens matching at least one
	// pattern. Patterns containing '*' match as anchored wildcards;
	// others match by case-insensitive substring. Empty means any path.
	PathPatterns []string `json:"path_patterns,omitempty" yaml:"path_patterns,omitempty"`

	// Authentication is the auth descriptor propagated to results, or
	// nil when the strategy's documents are public.
	Authentication *Authentication `json:"authentication,omitempty" yaml:"authentication,omitempty"`
}

// StrategyConfig is the full strategy configuration supplied once per
// session and treated as read-only thereafter.
type StrategyConfig struct {
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`

	// DefaultStrategy optionally names a strategy tried first whenever
	// it can handle the token, regardless of priority.
	DefaultStrategy string `json:"default_strategy,omitempty" yaml:"default_strategy,omitempty"`

	// FallbackStrategy optionally names a strategy selected
	// unconditionally when no strategy's filters match a token.
	FallbackStrategy string `json:"fallback_strategy,omitempty" yaml:"fallback_strategy,omitempty"`

	// LegacyBaseURL is used when no strategy is selected at all.
	LegacyBaseURL string `json:"legacy_base_url,omitempty" yaml:"legacy_base_url,omitempty"`

	// Strategies is the ordered strategy list. A nil slice means no
	// strategies were defined at all; an empty non-nil slice is an
	// explicitly empty set. The two degrade differently (legacy vs.
	// fallback path), matching the absent-vs-empty distinction of the
	// wire formats.
	Strategies []StrategyDefinition `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

// Strategy returns the definition with the given name, or nil.
// When duplicates exist the first listed wins.
func (c *StrategyConfig) Strategy(name string) *StrategyDefinition {
	if c == nil || name == "" {
		return nil
	}
	for i := range c.Strategies {
		if c.Strategies[i].Name == name {
			return &c.Strategies[i]
		}
	}
	return nil
}
