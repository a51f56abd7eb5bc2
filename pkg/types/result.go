// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StrategyUsed sentinel values reported when no structured strategy
// produced the URL.
const (
	// StrategyLegacy marks a resolution performed without any strategy
	// configuration at all.
	StrategyLegacy = "legacy"

	// StrategyFallback marks a resolution where a configuration was
	// present but no strategy was selected.
	StrategyFallback = "fallback"

	// StrategyErrorFallback marks a resolution that degraded because of
	// an internal failure.
	StrategyErrorFallback = "error_fallback"
)

// Metadata keys populated by the resolver.
const (
	MetaSource           = "source"
	MetaStrategyType     = "strategyType"
	MetaStrategyPriority = "strategyPriority"
	MetaCitation         = "citation"
)

// CitationResult is the outcome of resolving one citation token. URL is
// always non-empty; failed resolutions degrade to a fallback URL rather
// than erroring.
type CitationResult struct {
	// URL is the fully constructed, ready-to-navigate document URL.
	URL string `json:"url" yaml:"url"`

	// StrategyUsed is the name of the winning strategy, or one of the
	// StrategyLegacy/StrategyFallback/StrategyErrorFallback sentinels.
	StrategyUsed string `json:"strategy_used" yaml:"strategy_used"`

	// RequiresAuth is propagated from the winning strategy's
	// authentication descriptor. Legacy and fallback paths always
	// report false.
	RequiresAuth bool `json:"requires_auth" yaml:"requires_auth"`

	// AuthHeaders are the headers to attach when dereferencing URL.
	// Only set when RequiresAuth is true.
	AuthHeaders map[string]string `json:"auth_headers,omitempty" yaml:"auth_headers,omitempty"`

	// Metadata carries diagnostic context: strategy type and priority,
	// the original citation token, and any caller-supplied entries.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Error is a human-readable message present only when resolution
	// fell back due to an internal failure. Informational; never a
	// control-flow signal.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// CitationMarker is a validated citation reference found in generated
// chat text.
type CitationMarker struct {
	// Token is the citation token as it appeared between brackets.
	Token string `json:"token" yaml:"token"`

	// SourceID is the recorded source identifier the token matched
	// (the token is a prefix of it).
	SourceID string `json:"source_id" yaml:"source_id"`

	// Context is a snippet of the surrounding answer text.
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}
