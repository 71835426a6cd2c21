package input

import (
	"context"
	"errors"
	"testing"
)

func noopAction(context.Context, *EvalContext) error { return nil }

func navContext(route string) *EvalContext {
	return &EvalContext{Mode: ModeContext{Mode: ModeNavigation, Route: route}}
}

func editContext(route string) *EvalContext {
	return &EvalContext{Mode: ModeContext{Mode: ModeEditing, Route: route}}
}

func TestCompileRoutePattern_Matching(t *testing.T) {
	tests := []struct {
		pattern string
		route   string
		want    bool
	}{
		{"/secrets/:id", "/secrets/123", true},
		{"/secrets/:id", "/secrets/abc-def", true},
		{"/secrets/:id", "/secrets/123/edit", false},
		{"/secrets/:id", "/secrets", false},
		{"/secrets/:id", "/secrets/", false},
		{"/secrets", "/secrets", true},
		{"/secrets", "/secrets/123", false},
		{"/secrets/:id/edit", "/secrets/123/edit", true},
		{"/secrets/:id/edit", "/secrets/123", false},
		{"/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.route, func(t *testing.T) {
			re, err := CompileRoutePattern(tt.pattern)
			if err != nil {
				t.Fatalf("CompileRoutePattern(%q) error: %v", tt.pattern, err)
			}
			if got := re.MatchString(tt.route); got != tt.want {
				t.Errorf("pattern %q match %q = %v, want %v", tt.pattern, tt.route, got, tt.want)
			}
		})
	}
}

func TestCompileRoutePattern_LiteralsAreEscaped(t *testing.T) {
	re, err := CompileRoutePattern("/secrets/a.b")
	if err != nil {
		t.Fatalf("CompileRoutePattern error: %v", err)
	}
	if re.MatchString("/secrets/axb") {
		t.Errorf("dot in literal segment must not act as a wildcard")
	}
	if !re.MatchString("/secrets/a.b") {
		t.Errorf("literal segment should match itself")
	}
}

func TestCompileRoutePattern_Malformed(t *testing.T) {
	tests := []string{
		"",
		"secrets/:id",
		"/secrets//edit",
		"/secrets/:",
		"/secrets/a:b",
	}

	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			if _, err := CompileRoutePattern(pattern); err == nil {
				t.Errorf("CompileRoutePattern(%q) should have failed", pattern)
			}
		})
	}
}

func TestRegistry_DuplicateID(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	km := &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "s", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	}
	if err := r.Register(ctx, km); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	err := r.Register(ctx, &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "w", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	})

	var dup *DuplicateKeymapError
	if !errors.As(err, &dup) {
		t.Fatalf("Register duplicate id error = %v, want DuplicateKeymapError", err)
	}
	if dup.ID != "save" {
		t.Fatalf("DuplicateKeymapError.ID = %q", dup.ID)
	}
}

func TestRegistry_MalformedPatternFailsAtRegistration(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	err := r.Register(ctx, &Keymap{
		ID:      "broken",
		Binding: KeyBinding{Key: "x"},
		Rules: ActivationRules{
			Modes:         []Mode{ModeNavigation},
			RoutePatterns: []string{"secrets/:id"},
		},
		Action: noopAction,
	})

	var invalid *InvalidKeymapError
	if !errors.As(err, &invalid) {
		t.Fatalf("Register error = %v, want InvalidKeymapError", err)
	}
}

func TestRegistry_ValidationErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	tests := []struct {
		name string
		km   *Keymap
	}{
		{
			name: "missing id",
			km:   &Keymap{Binding: KeyBinding{Key: "x"}, Rules: ActivationRules{Modes: []Mode{ModeNavigation}}, Action: noopAction},
		},
		{
			name: "missing action",
			km:   &Keymap{ID: "a", Binding: KeyBinding{Key: "x"}, Rules: ActivationRules{Modes: []Mode{ModeNavigation}}},
		},
		{
			name: "missing binding key",
			km:   &Keymap{ID: "b", Rules: ActivationRules{Modes: []Mode{ModeNavigation}}, Action: noopAction},
		},
		{
			name: "empty mode set",
			km:   &Keymap{ID: "c", Binding: KeyBinding{Key: "x"}, Action: noopAction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid *InvalidKeymapError
			if err := r.Register(ctx, tt.km); !errors.As(err, &invalid) {
				t.Errorf("Register error = %v, want InvalidKeymapError", err)
			}
		})
	}
}

func TestRegistry_ActiveKeymaps_ModeFilter(t *testing.T) {
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "nav-only",
		Binding: KeyBinding{Key: "j"},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation}},
		Action:  noopAction,
	})
	mustRegister(t, r, &Keymap{
		ID:      "edit-only",
		Binding: KeyBinding{Key: "s", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	})
	mustRegister(t, r, &Keymap{
		ID:      "both",
		Binding: KeyBinding{Key: "q", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation, ModeEditing}},
		Action:  noopAction,
	})

	for _, mode := range []Mode{ModeNavigation, ModeEditing} {
		ec := &EvalContext{Mode: ModeContext{Mode: mode}}
		for _, km := range r.ActiveKeymaps(ec) {
			ok := false
			for _, m := range km.Rules.Modes {
				if m == mode {
					ok = true
				}
			}
			if !ok {
				t.Errorf("ActiveKeymaps(%s) returned %q whose modes exclude it", mode, km.ID)
			}
		}
	}

	if got := len(r.ActiveKeymaps(navContext(""))); got != 2 {
		t.Errorf("active in navigation = %d, want 2", got)
	}
	if got := len(r.ActiveKeymaps(editContext(""))); got != 2 {
		t.Errorf("active in editing = %d, want 2", got)
	}
}

func TestRegistry_ActiveKeymaps_RouteFilter(t *testing.T) {
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "detail-only",
		Binding: KeyBinding{Key: "e"},
		Rules: ActivationRules{
			Modes:         []Mode{ModeNavigation},
			RoutePatterns: []string{"/secrets/:id"},
		},
		Action: noopAction,
	})
	mustRegister(t, r, &Keymap{
		ID:      "everywhere",
		Binding: KeyBinding{Key: "q", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation}},
		Action:  noopAction,
	})

	active := r.ActiveKeymaps(navContext("/secrets/123"))
	if len(active) != 2 {
		t.Fatalf("active on /secrets/123 = %d, want 2", len(active))
	}

	active = r.ActiveKeymaps(navContext("/secrets"))
	if len(active) != 1 || active[0].ID != "everywhere" {
		t.Fatalf("active on /secrets = %v, want only everywhere", keymapIDs(active))
	}
}

func TestRegistry_ActiveKeymaps_Predicate(t *testing.T) {
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "needs-focus",
		Binding: KeyBinding{Key: "enter"},
		Rules: ActivationRules{
			Modes:     []Mode{ModeNavigation},
			Predicate: func(ec *EvalContext) bool { return ec.Focused != nil },
		},
		Action: noopAction,
	})

	if got := len(r.ActiveKeymaps(navContext("/secrets"))); got != 0 {
		t.Fatalf("predicate should exclude keymap without focus, got %d active", got)
	}
}

func TestRegistry_FindByBinding(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "down",
		Binding: KeyBinding{Key: "j"},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation}},
		Action:  noopAction,
	})

	if km := r.FindByBinding(ctx, KeyBinding{Key: "j"}, navContext("")); km == nil || km.ID != "down" {
		t.Fatalf("FindByBinding(j, navigation) = %v, want down", km)
	}
	if km := r.FindByBinding(ctx, KeyBinding{Key: "j"}, editContext("")); km != nil {
		t.Fatalf("FindByBinding(j, editing) = %q, want none", km.ID)
	}
	if km := r.FindByBinding(ctx, KeyBinding{Key: "j", Ctrl: true}, navContext("")); km != nil {
		t.Fatalf("FindByBinding(ctrl+j) matched %q despite modifier mismatch", km.ID)
	}
}

func TestRegistry_FindByBinding_ModeScopedSave(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "s", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	})

	binding := KeyBinding{Key: "s", Ctrl: true}
	if km := r.FindByBinding(ctx, binding, navContext("/secrets/1")); km != nil {
		t.Fatalf("save should not resolve in navigation mode, got %q", km.ID)
	}
	if km := r.FindByBinding(ctx, binding, editContext("/secrets/1")); km == nil || km.ID != "save" {
		t.Fatalf("save should resolve in editing mode")
	}
}

func TestRegistry_ConflictEarliestRegistrationWins(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	mustRegister(t, r, &Keymap{
		ID:      "first",
		Binding: KeyBinding{Key: "x"},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation}},
		Action:  noopAction,
	})
	mustRegister(t, r, &Keymap{
		ID:      "second",
		Binding: KeyBinding{Key: "x"},
		Rules:   ActivationRules{Modes: []Mode{ModeNavigation}},
		Action:  noopAction,
	})

	if km := r.FindByBinding(ctx, KeyBinding{Key: "x"}, navContext("")); km == nil || km.ID != "first" {
		t.Fatalf("conflicting binding should resolve to earliest registration, got %v", km)
	}
}

func TestRegistry_RegisterNormalizesBindingKey(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	// Constructed directly, bypassing ParseKeyString.
	mustRegister(t, r, &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "S", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	})

	binding := Normalize(RawEvent{Key: "S", Ctrl: true})
	if km := r.FindByBinding(ctx, binding, editContext("")); km == nil || km.ID != "save" {
		t.Fatalf("uppercase-registered binding should match the normalized event")
	}
}

func TestRegistry_UnregisterUnknownIsNoOp(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	r.Unregister(ctx, "ghost")
}

func TestRegistry_UnregisterThenReRegister(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()

	km := &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "s", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	}
	mustRegister(t, r, km)
	r.Unregister(ctx, "save")

	if km := r.FindByBinding(ctx, KeyBinding{Key: "s", Ctrl: true}, editContext("")); km != nil {
		t.Fatalf("unregistered keymap still resolvable")
	}
	mustRegister(t, r, &Keymap{
		ID:      "save",
		Binding: KeyBinding{Key: "s", Ctrl: true},
		Rules:   ActivationRules{Modes: []Mode{ModeEditing}},
		Action:  noopAction,
	})
}

func mustRegister(t *testing.T, r *Registry, km *Keymap) {
	t.Helper()
	if err := r.Register(context.Background(), km); err != nil {
		t.Fatalf("Register(%q) error: %v", km.ID, err)
	}
}

func keymapIDs(kms []*Keymap) []string {
	ids := make([]string, len(kms))
	for i, km := range kms {
		ids[i] = km.ID
	}
	return ids
}
