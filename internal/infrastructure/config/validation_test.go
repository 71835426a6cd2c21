package config

import (
	"strings"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantSub: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantSub: "logging.format",
		},
		{
			name: "unknown action",
			mutate: func(c *Config) {
				c.Keybindings.Navigation["teleport"] = "t"
			},
			wantSub: "unknown action",
		},
		{
			name: "unparseable key string",
			mutate: func(c *Config) {
				c.Keybindings.Global[ActionQuit] = "ctrl+"
			},
			wantSub: "cannot parse",
		},
		{
			name: "action in wrong scope",
			mutate: func(c *Config) {
				c.Keybindings.Editing[ActionQuit] = "q"
			},
			wantSub: "unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestDefaultConfig_BindingsParse(t *testing.T) {
	cfg := DefaultConfig()
	scopes := []map[string]string{
		cfg.Keybindings.Global,
		cfg.Keybindings.Navigation,
		cfg.Keybindings.Editing,
	}
	seen := 0
	for _, scope := range scopes {
		seen += len(scope)
	}
	if seen == 0 {
		t.Fatal("default keybindings are empty")
	}
}
