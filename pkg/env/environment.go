package env

import (
	"sort"

	"github.com/hopsage/TigerC/pkg/symbol"
)

// Scope is one frame of bindings. Its parent is shared, never owned.
type Scope[T any] struct {
	bindings map[*symbol.Symbol]T
	parent   *Scope[T]
}

func newScope[T any](parent *Scope[T]) *Scope[T] {
	return &Scope[T]{bindings: make(map[*symbol.Symbol]T), parent: parent}
}

// Parent exposes the enclosing scope (nil for the outermost frame).
func (s *Scope[T]) Parent() *Scope[T] {
	return s.parent
}

// Environment is a handle onto a chain of scopes. Each back end instantiates
// it with its own payload type.
type Environment[T any] struct {
	current *Scope[T]
}

// New creates an environment holding a single, outermost scope.
func New[T any]() *Environment[T] {
	return &Environment[T]{current: newScope[T](nil)}
}

// NewWithParent creates an environment whose outermost own scope encloses
// parent's current chain.
func NewWithParent[T any](parent *Environment[T]) *Environment[T] {
	return &Environment[T]{current: newScope(parent.current)}
}

// Extend binds sym in the current scope. It reports false, and changes
// nothing, when sym is already bound in that scope.
func (e *Environment[T]) Extend(sym *symbol.Symbol, value T) bool {
	if _, exists := e.current.bindings[sym]; exists {
		return false
	}
	e.current.bindings[sym] = value
	return true
}

// Update replaces the nearest existing binding of sym.
func (e *Environment[T]) Update(sym *symbol.Symbol, value T) bool {
	for scope := e.current; scope != nil; scope = scope.parent {
		if _, ok := scope.bindings[sym]; ok {
			scope.bindings[sym] = value
			return true
		}
	}
	return false
}

// Lookup walks outward from the current scope to the first binding of sym.
func (e *Environment[T]) Lookup(sym *symbol.Symbol) (T, bool) {
	for scope := e.current; scope != nil; scope = scope.parent {
		if value, ok := scope.bindings[sym]; ok {
			return value, true
		}
	}
	var zero T
	return zero, false
}

// LookupCurrent only consults the innermost scope.
func (e *Environment[T]) LookupCurrent(sym *symbol.Symbol) (T, bool) {
	value, ok := e.current.bindings[sym]
	return value, ok
}

// BeginScope pushes an empty scope onto this handle's chain.
func (e *Environment[T]) BeginScope() {
	e.current = newScope(e.current)
}

// EndScope pops the innermost scope. Popping the outermost scope is a bug in
// the caller.
func (e *Environment[T]) EndScope() {
	if e.current.parent == nil {
		panic("env: EndScope on outermost scope")
	}
	e.current = e.current.parent
}

// Snapshot returns a second handle sharing the current scope. Pushing or
// popping scopes on either handle leaves the other alone, but bindings added
// to a shared scope are visible through both.
func (e *Environment[T]) Snapshot() *Environment[T] {
	return &Environment[T]{current: e.current}
}

// Current exposes the innermost scope.
func (e *Environment[T]) Current() *Scope[T] {
	return e.current
}

// Depth counts the scopes on the chain.
func (e *Environment[T]) Depth() int {
	depth := 0
	for scope := e.current; scope != nil; scope = scope.parent {
		depth++
	}
	return depth
}

// Names lists the symbols bound in the current scope, sorted by text.
func (e *Environment[T]) Names() []*symbol.Symbol {
	out := make([]*symbol.Symbol, 0, len(e.current.bindings))
	for sym := range e.current.bindings {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
