// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/sourcelink/pkg/types"
)

// canHandle reports whether the strategy's extension and path filters
// accept the token. A strategy with neither filter accepts any token.
func canHandle(token string, s *types.StrategyDefinition) (bool, error) {
	if len(s.FileExtensions) > 0 {
		ext := tokenExtension(token)
		if ext == "" || !extensionAllowed(ext, s.FileExtensions) {
			return false, nil
		}
	}

	if len(s.PathPatterns) > 0 {
		matched := false
		for _, pattern := range s.PathPatterns {
			ok, err := matchPattern(token, pattern)
			if err != nil {
				return false, fmt.Errorf("strategy %s: pattern %q: %w", s.Name, pattern, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}

	return true, nil
}

// tokenExtension returns the token's extension (the substring after the
// last '.'), lower-cased, or "" when the token has none.
func tokenExtension(token string) string {
	i := strings.LastIndexByte(token, '.')
	if i < 0 || i == len(token)-1 {
		return ""
	}
	return strings.ToLower(token[i+1:])
}

// extensionAllowed reports whether ext is in the allowed set. Entries
// are compared case-insensitively with any leading dot stripped.
func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == strings.ToLower(strings.TrimPrefix(a, ".")) {
			return true
		}
	}
	return false
}

// matchPattern matches the token against one path pattern. Patterns
// containing '*' become case-insensitive wildcard expressions anchored
// at both ends; patterns without '*' match by case-insensitive
// substring containment.
func matchPattern(token, pattern string) (bool, error) {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(strings.ToLower(token), strings.ToLower(pattern)), nil
	}

	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile(`(?i)^` + strings.Join(parts, ".*") + `$`)
	if err != nil {
		return false, err
	}
	return re.MatchString(token), nil
}
