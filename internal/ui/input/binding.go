// Package input implements the contextual command-dispatch core: the mode
// state machine, the keymap registry, and the executor that resolves raw key
// events to context-scoped actions.
package input

import "strings"

// RawEvent is a key event as delivered by the host input source.
// The key identifier may be in any case; absent modifiers are false.
type RawEvent struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// KeyBinding is a normalized key + modifier combination.
// Two bindings are equal iff all five fields are equal.
type KeyBinding struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool
}

// Normalize converts a raw event into its canonical KeyBinding:
// the key identifier is lower-cased and modifiers default to false.
func Normalize(ev RawEvent) KeyBinding {
	return KeyBinding{
		Key:   strings.ToLower(ev.Key),
		Ctrl:  ev.Ctrl,
		Shift: ev.Shift,
		Alt:   ev.Alt,
		Meta:  ev.Meta,
	}
}

// String returns a config-style representation like "ctrl+shift+s".
func (b KeyBinding) String() string {
	var parts []string
	if b.Ctrl {
		parts = append(parts, "ctrl")
	}
	if b.Alt {
		parts = append(parts, "alt")
	}
	if b.Shift {
		parts = append(parts, "shift")
	}
	if b.Meta {
		parts = append(parts, "meta")
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}

// ParseKeyString converts a config key string like "ctrl+s" to a KeyBinding.
// Modifier names are case-insensitive; an uppercase single-letter key is
// treated as shift+<letter>. Returns false if the string cannot be parsed.
func ParseKeyString(s string) (KeyBinding, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyBinding{}, false
	}
	if s == "+" {
		return KeyBinding{Key: "+"}, true
	}

	parts := strings.Split(s, "+")

	var b KeyBinding
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		switch strings.ToLower(part) {
		case "ctrl", "control":
			b.Ctrl = true
		case "shift":
			b.Shift = true
		case "alt", "option":
			b.Alt = true
		case "meta", "cmd", "super":
			b.Meta = true
		default:
			if b.Key != "" {
				return KeyBinding{}, false
			}
			b.Key = part
		}
	}

	// Allow parsing "ctrl++" where the key itself is "+".
	if b.Key == "" && strings.HasSuffix(s, "++") {
		b.Key = "+"
	}

	if b.Key == "" {
		return KeyBinding{}, false
	}

	// Treat uppercase single-letter keys as shift+<letter>.
	if len(b.Key) == 1 && b.Key[0] >= 'A' && b.Key[0] <= 'Z' {
		b.Shift = true
	}
	b.Key = strings.ToLower(b.Key)

	return b, true
}
