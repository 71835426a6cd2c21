package input

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/castellan/castellan/internal/logging"
)

// Action is invoked when a keymap matches. Slow work should honor ctx,
// which is cancelled on mode and route changes.
type Action func(ctx context.Context, ec *EvalContext) error

// Predicate is an optional custom activation condition. Predicates must be
// side-effect-free: they may be evaluated repeatedly for events that never
// resolve to this keymap.
type Predicate func(ec *EvalContext) bool

// ActivationRules describe when a keymap is eligible.
type ActivationRules struct {
	// Modes the keymap is active in. Must not be empty.
	Modes []Mode

	// RoutePatterns restrict the keymap to matching routes. Segments
	// starting with ':' match exactly one path segment, e.g.
	// "/secrets/:id". Empty means active on every route.
	RoutePatterns []string

	// Predicate is an additional condition, evaluated last. Optional.
	Predicate Predicate
}

// Keymap binds a key combination to an action under activation rules.
type Keymap struct {
	// ID is unique across the registry for the keymap's lifetime.
	ID string

	Binding KeyBinding
	Rules   ActivationRules
	Action  Action

	// routeMatchers are compiled once at registration, not per keystroke.
	routeMatchers []*regexp.Regexp
}

var routeParamRe = regexp.MustCompile(`^:[A-Za-z_][A-Za-z0-9_]*$`)

// CompileRoutePattern compiles a path template into an anchored matcher.
// "/secrets/:id" matches "/secrets/123" but not "/secrets/123/edit" nor
// "/secrets". Malformed patterns fail here, at registration time.
func CompileRoutePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("route pattern %q must start with '/'", pattern)
	}

	segments := strings.Split(pattern[1:], "/")
	var sb strings.Builder
	sb.WriteString("^")
	for _, seg := range segments {
		sb.WriteString("/")
		switch {
		case seg == "":
			return nil, fmt.Errorf("route pattern %q has an empty segment", pattern)
		case strings.HasPrefix(seg, ":"):
			if !routeParamRe.MatchString(seg) {
				return nil, fmt.Errorf("route pattern %q has a malformed parameter segment %q", pattern, seg)
			}
			sb.WriteString("[^/]+")
		case strings.Contains(seg, ":"):
			return nil, fmt.Errorf("route pattern %q has ':' inside literal segment %q", pattern, seg)
		default:
			sb.WriteString(regexp.QuoteMeta(seg))
		}
	}
	sb.WriteString("$")

	return regexp.Compile(sb.String())
}

// Registry owns the set of keymap definitions and resolves key events to
// eligible keymaps.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Keymap
	order []*Keymap // registration order, for deterministic conflict resolution
}

// NewRegistry creates an empty keymap registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Keymap)}
}

// Register validates and inserts a keymap. Route patterns are compiled
// here so match time stays off the regex constructor.
func (r *Registry) Register(ctx context.Context, km *Keymap) error {
	if km.ID == "" {
		return &InvalidKeymapError{ID: km.ID, Reason: "missing id"}
	}
	if km.Action == nil {
		return &InvalidKeymapError{ID: km.ID, Reason: "missing action"}
	}
	if km.Binding.Key == "" {
		return &InvalidKeymapError{ID: km.ID, Reason: "missing binding key"}
	}
	if len(km.Rules.Modes) == 0 {
		return &InvalidKeymapError{ID: km.ID, Reason: "empty mode set"}
	}

	// Bindings are stored normalized; events are normalized before lookup,
	// so a directly constructed uppercase key would otherwise never match.
	km.Binding.Key = strings.ToLower(km.Binding.Key)

	matchers := make([]*regexp.Regexp, 0, len(km.Rules.RoutePatterns))
	for _, pattern := range km.Rules.RoutePatterns {
		re, err := CompileRoutePattern(pattern)
		if err != nil {
			return &InvalidKeymapError{ID: km.ID, Reason: err.Error()}
		}
		matchers = append(matchers, re)
	}
	km.routeMatchers = matchers

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[km.ID]; exists {
		return &DuplicateKeymapError{ID: km.ID}
	}
	r.byID[km.ID] = km
	r.order = append(r.order, km)

	logging.FromContext(ctx).Trace().
		Str("keymap", km.ID).
		Str("binding", km.Binding.String()).
		Msg("keymap registered")

	return nil
}

// RegisterMany registers keymaps in order, stopping at the first error.
func (r *Registry) RegisterMany(ctx context.Context, kms []*Keymap) error {
	for _, km := range kms {
		if err := r.Register(ctx, km); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a keymap by id. Removing an unknown id is a no-op.
func (r *Registry) Unregister(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return
	}
	delete(r.byID, id)
	for i, km := range r.order {
		if km.ID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	logging.FromContext(ctx).Trace().Str("keymap", id).Msg("keymap unregistered")
}

// ActiveKeymaps returns every keymap whose activation rules are satisfied
// by the evaluation context, in registration order.
func (r *Registry) ActiveKeymaps(ec *EvalContext) []*Keymap {
	r.mu.RLock()
	order := make([]*Keymap, len(r.order))
	copy(order, r.order)
	r.mu.RUnlock()

	var active []*Keymap
	for _, km := range order {
		if km.isActive(ec) {
			active = append(active, km)
		}
	}
	return active
}

// FindByBinding resolves a binding to the earliest-registered active keymap
// with an equal binding, or nil. Two active keymaps sharing one binding is
// a configuration defect; a diagnostic is emitted when detected.
func (r *Registry) FindByBinding(ctx context.Context, binding KeyBinding, ec *EvalContext) *Keymap {
	active := r.ActiveKeymaps(ec)

	var found *Keymap
	for _, km := range active {
		if km.Binding != binding {
			continue
		}
		if found == nil {
			found = km
			continue
		}
		logging.FromContext(ctx).Warn().
			Str("binding", binding.String()).
			Str("resolved", found.ID).
			Str("shadowed", km.ID).
			Msg("conflicting active keymaps share a binding; earliest registration wins")
	}
	return found
}

func (km *Keymap) isActive(ec *EvalContext) bool {
	modeOK := false
	for _, m := range km.Rules.Modes {
		if m == ec.Mode.Mode {
			modeOK = true
			break
		}
	}
	if !modeOK {
		return false
	}

	if len(km.routeMatchers) > 0 {
		routeOK := false
		for _, re := range km.routeMatchers {
			if re.MatchString(ec.Mode.Route) {
				routeOK = true
				break
			}
		}
		if !routeOK {
			return false
		}
	}

	if km.Rules.Predicate != nil && !km.Rules.Predicate(ec) {
		return false
	}
	return true
}
