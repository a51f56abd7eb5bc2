// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/sourcelink/pkg/types"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "strategies.yaml", `
version: "1.0"
default_strategy: sp-docs
strategies:
  - name: sp-docs
    type: sharepoint
    base_url: https://contoso.sharepoint.com/sites/docs
    enabled: true
    priority: 10
    file_extensions: [pdf, docx]
    authentication:
      requires_auth: true
      additional_headers:
        Authorization: Bearer ${sp-token}
  - name: cms
    type: cms
    base_url: https://cms.example.com
    enabled: false
    priority: 1
    path_patterns: ["docs/*"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Version != "1.0" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.DefaultStrategy != "sp-docs" {
		t.Errorf("DefaultStrategy = %q", cfg.DefaultStrategy)
	}
	if len(cfg.Strategies) != 2 {
		t.Fatalf("got %d strategies, want 2", len(cfg.Strategies))
	}

	sp := cfg.Strategies[0]
	if sp.Type != types.TypeSharePoint || !sp.Enabled || sp.Priority != 10 {
		t.Errorf("sharepoint strategy = %+v", sp)
	}
	if sp.Authentication == nil || !sp.Authentication.RequiresAuth {
		t.Fatalf("Authentication = %+v", sp.Authentication)
	}
	if sp.Authentication.AdditionalHeaders["Authorization"] != "Bearer ${sp-token}" {
		t.Errorf("AdditionalHeaders = %v", sp.Authentication.AdditionalHeaders)
	}

	if cfg.Strategies[1].Enabled {
		t.Error("cms strategy should be disabled")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "strategies.json", `{
  "version": "1.0",
  "strategies": [
    {"name": "files", "type": "file_server", "base_url": "https://files.example.com", "enabled": true, "priority": 2}
  ]
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Strategies) != 1 || cfg.Strategies[0].Name != "files" {
		t.Errorf("Strategies = %+v", cfg.Strategies)
	}
}

func TestLoadEmptyStrategiesStaysNilOrEmpty(t *testing.T) {
	// The resolver distinguishes an absent strategy list from an
	// explicitly empty one; loading must preserve that.
	absent, err := Load(writeConfig(t, "absent.yaml", `version: "1.0"`))
	if err != nil {
		t.Fatal(err)
	}
	if absent.Strategies != nil {
		t.Errorf("absent list: Strategies = %#v, want nil", absent.Strategies)
	}

	empty, err := Load(writeConfig(t, "empty.json", `{"version": "1.0", "strategies": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if empty.Strategies == nil {
		t.Error("explicit empty list: Strategies = nil, want empty slice")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file: want error")
	}
	if _, err := Load(writeConfig(t, "bad.yaml", "[unclosed")); err == nil {
		t.Error("Load of malformed YAML: want error")
	}
	if _, err := Load(writeConfig(t, "bad.json", "{")); err == nil {
		t.Error("Load of malformed JSON: want error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *types.StrategyConfig {
		return &types.StrategyConfig{
			Version: "1.0",
			Strategies: []types.StrategyDefinition{
				{Name: "sp", Type: types.TypeSharePoint, BaseURL: "https://sp.example.com", Enabled: true, Priority: 1},
			},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*types.StrategyConfig)
		wantError   string
		wantWarning string
	}{
		{
			name:   "valid config has no findings",
			mutate: func(c *types.StrategyConfig) {},
		},
		{
			name: "duplicate names",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies = append(c.Strategies, c.Strategies[0])
			},
			wantError: "duplicate strategy name",
		},
		{
			name: "missing name",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Name = ""
			},
			wantError: "'name' is required",
		},
		{
			name: "unknown type",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Type = "ftp"
			},
			wantError: `unknown strategy type "ftp"`,
		},
		{
			name: "missing base url",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].BaseURL = ""
			},
			wantError: "'base_url' is required",
		},
		{
			name: "relative base url",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].BaseURL = "/content"
			},
			wantError: "not an absolute http(s) URL",
		},
		{
			name: "default type may omit base url",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Type = types.TypeDefault
				c.Strategies[0].BaseURL = ""
			},
		},
		{
			name: "missing version warns",
			mutate: func(c *types.StrategyConfig) {
				c.Version = ""
			},
			wantWarning: "missing schema version",
		},
		{
			name: "dangling default strategy warns",
			mutate: func(c *types.StrategyConfig) {
				c.DefaultStrategy = "nope"
			},
			wantWarning: `'default_strategy' references unknown strategy "nope"`,
		},
		{
			name: "disabled fallback strategy warns",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Enabled = false
				c.FallbackStrategy = "sp"
			},
			wantWarning: `'fallback_strategy' references disabled strategy "sp"`,
		},
		{
			name: "negative priority warns",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Priority = -1
			},
			wantWarning: "negative priority",
		},
		{
			name: "malformed extension warns",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].FileExtensions = []string{"*.pdf"}
			},
			wantWarning: "malformed file extension",
		},
		{
			name: "no enabled strategies warns",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Enabled = false
			},
			wantWarning: "no strategies are enabled",
		},
		{
			name: "headers without requires_auth warns",
			mutate: func(c *types.StrategyConfig) {
				c.Strategies[0].Authentication = &types.Authentication{
					AdditionalHeaders: map[string]string{"X-Key": "v"},
				}
			},
			wantWarning: "ignored without requires_auth",
		},
		{
			name: "bad legacy base url",
			mutate: func(c *types.StrategyConfig) {
				c.LegacyBaseURL = "not a url"
			},
			wantError: "'legacy_base_url'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs, warns := Validate(cfg)

			if tt.wantError == "" && tt.wantWarning == "" {
				if len(errs) > 0 || len(warns) > 0 {
					t.Errorf("unexpected findings: errors=%v warnings=%v", errs, warns)
				}
				return
			}
			if tt.wantError != "" && !containsSubstring(errs, tt.wantError) {
				t.Errorf("errors = %v, want one containing %q", errs, tt.wantError)
			}
			if tt.wantWarning != "" && !containsSubstring(warns, tt.wantWarning) {
				t.Errorf("warnings = %v, want one containing %q", warns, tt.wantWarning)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	errs, _ := Validate(nil)
	if len(errs) != 1 || !strings.Contains(errs[0], "no configuration") {
		t.Errorf("errors = %v", errs)
	}
}

func containsSubstring(findings []string, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}
