// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds citation markers in generated chat text. The
// generation backend embeds bracket-delimited source references in its
// answers; a candidate only counts as a citation when it names one of
// the source identifiers recorded in the answer's supporting context.
package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sourcelink/pkg/types"
)

// markerRe matches bracket-delimited citation candidates like
// [handbook.pdf] or [docs/policy.docx#page=3].
var markerRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Markers scans answer text for citation markers and validates each
// candidate against the recorded source identifiers: a candidate is
// kept only when it is a prefix of one of them. Markers are returned
// in order of first appearance, deduplicated by token.
func Markers(answer string, sources []string) []types.CitationMarker {
	seen := make(map[string]bool)
	var markers []types.CitationMarker

	for _, match := range markerRe.FindAllStringSubmatchIndex(answer, -1) {
		token := answer[match[2]:match[3]]
		if seen[token] {
			continue
		}

		sourceID, ok := matchSource(token, sources)
		if !ok {
			continue
		}

		seen[token] = true
		markers = append(markers, types.CitationMarker{
			Token:    token,
			SourceID: sourceID,
			Context:  surroundingContext(answer, match[0], match[1]),
		})
	}

	return markers
}

// matchSource returns the first recorded source identifier the token is
// a prefix of.
func matchSource(token string, sources []string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, s := range sources {
		if strings.HasPrefix(s, token) {
			return s, true
		}
	}
	return "", false
}

// surroundingContext returns a snippet of answer text around a marker,
// up to 40 characters on each side, trimmed to word boundaries.
func surroundingContext(text string, start, end int) string {
	const window = 40
	ctxStart := start - window
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + window
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	snippet := text[ctxStart:ctxEnd]
	if ctxStart > 0 {
		if i := strings.IndexByte(snippet, ' '); i >= 0 && i < window {
			snippet = snippet[i+1:]
		}
	}
	if ctxEnd < len(text) {
		if i := strings.LastIndexByte(snippet, ' '); i >= 0 && i > len(snippet)-window {
			snippet = snippet[:i]
		}
	}
	return strings.TrimSpace(snippet)
}
