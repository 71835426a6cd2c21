package input

import "fmt"

// DuplicateKeymapError is returned when a keymap id is already registered.
// Duplicate ids are rejected rather than silently overwritten so that
// configuration defects surface at startup.
type DuplicateKeymapError struct {
	ID string
}

func (e *DuplicateKeymapError) Error() string {
	return fmt.Sprintf("input: keymap %q already registered", e.ID)
}

// InvalidKeymapError is returned when a keymap fails validation at
// registration time (malformed route pattern, empty mode set, missing id
// or action).
type InvalidKeymapError struct {
	ID     string
	Reason string
}

func (e *InvalidKeymapError) Error() string {
	return fmt.Sprintf("input: keymap %q invalid: %s", e.ID, e.Reason)
}
