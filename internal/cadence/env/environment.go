// Package env implements Cadence's lexical Environment: a stack of
// scopes plus a thread-safe wrapper for the host interpreter. Grounded
// on cadence-core/src/parser/environment.rs for the scope-stack shape
// and the teacher's player/realtime.go for the sync.Mutex idiom,
// generalized to sync.RWMutex per spec §4.5 (multiple-reader,
// single-writer).
package env

import (
	"github.com/huandu/go-clone/generic"

	"cadence/internal/cadence/value"
)

// Environment is a stack of variable scopes. Scope 0 is the global
// scope and is never popped; lookups and sets search innermost-first.
type Environment struct {
	scopes []map[string]value.Value
}

// New builds an Environment with just the global scope.
func New() *Environment {
	return &Environment{scopes: []map[string]value.Value{{}}}
}

// PushScope opens a new innermost scope (function call, block, loop
// body).
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, map[string]value.Value{})
}

// PopScope closes the innermost scope. It is a no-op if only the global
// scope remains, since that one is never popped.
func (e *Environment) PopScope() {
	if len(e.scopes) > 1 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Define binds name in the innermost scope.
func (e *Environment) Define(name string, v value.Value) {
	e.scopes[len(e.scopes)-1][name] = v
}

// DefineGlobal binds name in the global (outermost) scope, regardless of
// how many scopes are currently pushed — used for top-level let/fn.
func (e *Environment) DefineGlobal(name string, v value.Value) {
	e.scopes[0][name] = v
}

// Lookup searches scopes innermost-first for name.
func (e *Environment) Lookup(name string) (value.Value, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i][name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Set updates the nearest enclosing binding of name. It returns false if
// name is unbound anywhere, in which case the caller (the evaluator)
// should treat it as an error rather than implicitly creating a global.
func (e *Environment) Set(name string, v value.Value) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			e.scopes[i][name] = v
			return true
		}
	}
	return false
}

// Clear removes every scope but the global one, and empties the global
// scope too — used by the `clear()` builtin (spec §4.7).
func (e *Environment) Clear() {
	e.scopes = []map[string]value.Value{{}}
}

// AllBindings returns every visible binding, innermost shadowing
// outermost, deduplicated by name.
func (e *Environment) AllBindings() map[string]value.Value {
	out := map[string]value.Value{}
	for _, scope := range e.scopes {
		for name, v := range scope {
			out[name] = v
		}
	}
	return out
}

// Snapshot deep-clones the environment so a caller can inspect or mutate
// it without racing the live environment. huandu/go-clone/generic is the
// only deep-clone dependency anywhere in the example pack; see
// DESIGN.md's Environment.Snapshot() entry for why this reads the spec's
// "shallow snapshot" wording conservatively as a deep clone.
func (e *Environment) Snapshot() *Environment {
	return &Environment{scopes: clone.Clone(e.scopes)}
}
