// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver maps citation tokens to authoritative source-document
// URLs using a declarative strategy configuration. Resolution is a pure
// computation: no I/O, no mutation of the supplied config, and every
// failure path degrades to a usable fallback URL instead of an error.
package resolver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/sourcelink/pkg/types"
)

// defaultContentEndpoint is the generic document endpoint used when no
// other base URL applies.
const defaultContentEndpoint = "/content"

// Resolver resolves citation tokens. The zero value is usable; both
// fields only affect the legacy path taken when no strategy applies.
type Resolver struct {
	// ContentEndpoint is the generic content path the legacy URL is
	// built from when LegacyBaseURL is empty. Defaults to "/content".
	ContentEndpoint string

	// LegacyBaseURL, when set, is prefixed onto tokens that resolve
	// through the legacy path.
	LegacyBaseURL string
}

// New returns a Resolver with the default content endpoint.
func New() *Resolver {
	return &Resolver{ContentEndpoint: defaultContentEndpoint}
}

// Resolve maps a citation token to a CitationResult. Selection is
// deterministic for identical inputs, exactly one strategy (or none) is
// chosen per call, and the returned URL is always non-empty. Extra
// entries are merged into the result metadata, taking precedence over
// resolver-populated keys. Resolve never panics to its caller; internal
// failures produce an error_fallback result instead.
func (r *Resolver) Resolve(token string, cfg *types.StrategyConfig, extra map[string]string) (result types.CitationResult) {
	defer func() {
		if p := recover(); p != nil {
			result = r.errorFallback(token, extra, fmt.Sprintf("internal resolution failure: %v", p))
		}
	}()

	// A nil config, or a config whose strategy list was never defined,
	// takes the legacy fast path.
	if cfg == nil || cfg.Strategies == nil {
		return r.legacyResult(token, extra)
	}

	res, err := r.resolveWithConfig(token, cfg, extra)
	if err != nil {
		return r.errorFallback(token, extra, err.Error())
	}
	return res
}

func (r *Resolver) resolveWithConfig(token string, cfg *types.StrategyConfig, extra map[string]string) (types.CitationResult, error) {
	strat, err := selectStrategy(token, cfg)
	if err != nil {
		return types.CitationResult{}, err
	}

	if strat == nil {
		url := r.legacyURL(token)
		if cfg.LegacyBaseURL != "" {
			url = joinURL(cfg.LegacyBaseURL, token)
		}
		return types.CitationResult{
			URL:          url,
			StrategyUsed: types.StrategyFallback,
			Metadata:     baseMetadata(token, "fallback", extra),
		}, nil
	}

	return r.buildResult(token, strat, extra), nil
}

// selectStrategy picks at most one strategy for the token:
// default-strategy precedence, then highest-priority capability match
// (ties broken by list order), then the unconditional fallback strategy.
// The fallback strategy is trusted to handle anything; its own filters
// are not reapplied.
func selectStrategy(token string, cfg *types.StrategyConfig) (*types.StrategyDefinition, error) {
	enabled := make([]*types.StrategyDefinition, 0, len(cfg.Strategies))
	for i := range cfg.Strategies {
		if cfg.Strategies[i].Enabled {
			enabled = append(enabled, &cfg.Strategies[i])
		}
	}

	if cfg.DefaultStrategy != "" {
		for _, s := range enabled {
			if s.Name != cfg.DefaultStrategy {
				continue
			}
			ok, err := canHandle(token, s)
			if err != nil {
				return nil, err
			}
			if ok {
				return s, nil
			}
			break
		}
	}

	var matching []*types.StrategyDefinition
	for _, s := range enabled {
		ok, err := canHandle(token, s)
		if err != nil {
			return nil, err
		}
		if ok {
			matching = append(matching, s)
		}
	}

	if len(matching) > 0 {
		sort.SliceStable(matching, func(i, j int) bool {
			return matching[i].Priority > matching[j].Priority
		})
		return matching[0], nil
	}

	if cfg.FallbackStrategy != "" {
		for _, s := range enabled {
			if s.Name == cfg.FallbackStrategy {
				return s, nil
			}
		}
	}

	return nil, nil
}

// buildResult constructs the URL for the selected strategy and fills in
// auth and metadata.
func (r *Resolver) buildResult(token string, s *types.StrategyDefinition, extra map[string]string) types.CitationResult {
	base := strings.TrimRight(s.BaseURL, "/")
	path := strings.TrimPrefix(token, "/")

	var url string
	switch s.Type {
	case types.TypeCMS:
		// CMS stores key documents by stem, not filename.
		url = base + "/documents/" + stem(path)
	case types.TypeSharePoint, types.TypeBlobStorage, types.TypeFileServer, types.TypeCustomURL:
		url = base + "/" + path
	default:
		// "default" and unrecognized types: base-prefixed when a base
		// is configured, otherwise the generic content endpoint.
		if base == "" {
			url = r.legacyURL(token)
		} else {
			url = base + "/" + path
		}
	}

	meta := map[string]string{
		types.MetaStrategyType:     string(s.Type),
		types.MetaStrategyPriority: strconv.Itoa(s.Priority),
		types.MetaCitation:         token,
	}
	for k, v := range extra {
		meta[k] = v
	}

	res := types.CitationResult{
		URL:          url,
		StrategyUsed: s.Name,
		Metadata:     meta,
	}

	if s.Authentication != nil && s.Authentication.RequiresAuth {
		res.RequiresAuth = true
		if len(s.Authentication.AdditionalHeaders) > 0 {
			res.AuthHeaders = make(map[string]string, len(s.Authentication.AdditionalHeaders))
			for k, v := range s.Authentication.AdditionalHeaders {
				res.AuthHeaders[k] = v
			}
		}
	}

	return res
}

func (r *Resolver) legacyResult(token string, extra map[string]string) types.CitationResult {
	return types.CitationResult{
		URL:          r.legacyURL(token),
		StrategyUsed: types.StrategyLegacy,
		Metadata:     baseMetadata(token, "legacy_fallback", extra),
	}
}

func (r *Resolver) errorFallback(token string, extra map[string]string, msg string) types.CitationResult {
	res := types.CitationResult{
		URL:          r.legacyURL(token),
		StrategyUsed: types.StrategyErrorFallback,
		Metadata:     baseMetadata(token, "error_fallback", extra),
		Error:        msg,
	}
	return res
}

// legacyURL builds the unstructured URL used when no strategy applies.
func (r *Resolver) legacyURL(token string) string {
	if r.LegacyBaseURL != "" {
		return joinURL(r.LegacyBaseURL, token)
	}
	endpoint := r.ContentEndpoint
	if endpoint == "" {
		endpoint = defaultContentEndpoint
	}
	return joinURL(endpoint, token)
}

// joinURL joins a base URL and a token path with exactly one slash.
func joinURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimPrefix(token, "/")
}

// stem returns the token path up to (not including) the first dot.
func stem(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

func baseMetadata(token, source string, extra map[string]string) map[string]string {
	m := map[string]string{
		types.MetaCitation: token,
		types.MetaSource:   source,
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}
