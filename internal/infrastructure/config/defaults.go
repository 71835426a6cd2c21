package config

// Action names used in the keybindings section. Each maps to one
// keymap built at startup.
const (
	ActionQuit = "quit"

	ActionFocusNext     = "focus_next"
	ActionFocusPrevious = "focus_previous"
	ActionFocusFirst    = "focus_first"
	ActionFocusLast     = "focus_last"
	ActionOpen          = "open"
	ActionNewSecret     = "new_secret"
	ActionDeleteSecret  = "delete_secret"
	ActionCopyValue     = "copy_value"
	ActionEditSecret    = "edit_secret"
	ActionRevealValue   = "reveal_value"

	ActionCancelEdit = "cancel_edit"
	ActionSaveEdit   = "save_edit"
)

// DefaultConfig returns the default configuration for castellan.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Keybindings: KeybindingsConfig{
			Global: map[string]string{
				ActionQuit: "ctrl+q",
			},
			Navigation: map[string]string{
				ActionFocusNext:     "j",
				ActionFocusPrevious: "k",
				ActionFocusFirst:    "g",
				ActionFocusLast:     "shift+g",
				ActionOpen:          "enter",
				ActionNewSecret:     "n",
				ActionDeleteSecret:  "d",
				ActionCopyValue:     "y",
				ActionEditSecret:    "e",
				ActionRevealValue:   "r",
			},
			Editing: map[string]string{
				ActionCancelEdit: "esc",
				ActionSaveEdit:   "ctrl+s",
			},
		},
	}
}
