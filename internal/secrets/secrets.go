// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credential material for authenticated citation
// strategies from a directory of plain-text files. Each file is one
// secret: the filename is the key and the trimmed contents are the
// value. Strategy auth header values reference secrets with ${name}
// placeholders so tokens never appear in the strategy config itself.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error; Load returns an empty
// map. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// placeholderRe matches ${name} references in header values.
var placeholderRe = regexp.MustCompile(`\$\{([^{}]+)\}`)

// Expand substitutes ${name} placeholders in each header value with the
// corresponding secret. Unknown placeholders are left intact so the
// failure is visible at the receiving end rather than silently blanked.
// The input map is not modified.
func Expand(headers, secrets map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	expanded := make(map[string]string, len(headers))
	for k, v := range headers {
		expanded[k] = placeholderRe.ReplaceAllStringFunc(v, func(m string) string {
			name := m[2 : len(m)-1]
			if value, ok := secrets[name]; ok {
				return value
			}
			return m
		})
	}
	return expanded
}
