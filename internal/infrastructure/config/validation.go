package config

import (
	"fmt"

	"github.com/castellan/castellan/internal/ui/input"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

var knownActions = map[string][]string{
	"global": {
		ActionQuit,
	},
	"navigation": {
		ActionFocusNext, ActionFocusPrevious, ActionFocusFirst, ActionFocusLast,
		ActionOpen, ActionNewSecret, ActionDeleteSecret, ActionCopyValue,
		ActionEditSecret, ActionRevealValue,
	},
	"editing": {
		ActionCancelEdit, ActionSaveEdit,
	},
}

// Validate checks a loaded configuration for errors. It rejects unknown
// log levels and formats, unknown keybinding actions, and key strings
// that do not parse.
func Validate(config *Config) error {
	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("invalid logging.level %q", config.Logging.Level)
	}
	if !validLogFormats[config.Logging.Format] {
		return fmt.Errorf("invalid logging.format %q", config.Logging.Format)
	}

	scopes := map[string]map[string]string{
		"global":     config.Keybindings.Global,
		"navigation": config.Keybindings.Navigation,
		"editing":    config.Keybindings.Editing,
	}
	for scope, bindings := range scopes {
		if err := validateScope(scope, bindings); err != nil {
			return err
		}
	}
	return nil
}

func validateScope(scope string, bindings map[string]string) error {
	allowed := make(map[string]bool, len(knownActions[scope]))
	for _, action := range knownActions[scope] {
		allowed[action] = true
	}

	for action, keyString := range bindings {
		if !allowed[action] {
			return fmt.Errorf("keybindings.%s: unknown action %q", scope, action)
		}
		if _, ok := input.ParseKeyString(keyString); !ok {
			return fmt.Errorf("keybindings.%s.%s: cannot parse key string %q", scope, action, keyString)
		}
	}
	return nil
}
