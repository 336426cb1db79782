package types

import (
	"strings"

	"github.com/hopsage/TigerC/pkg/symbol"
)

// Type is a Tiger static type.
type Type interface {
	// Actual follows placeholder indirections to the first concrete type.
	Actual() Type
	// CoercesTo reports whether a value of this type is usable where other
	// is expected.
	CoercesTo(other Type) bool
	String() string
}

type PrimitiveKind string

const (
	KindInt    PrimitiveKind = "int"
	KindString PrimitiveKind = "string"
	KindVoid   PrimitiveKind = "void"
	KindNil    PrimitiveKind = "nil"
	KindError  PrimitiveKind = "error"
)

// PrimitiveType covers the five singleton types. Compare them by pointer.
type PrimitiveType struct {
	Kind PrimitiveKind
}

var (
	Int    = &PrimitiveType{Kind: KindInt}
	String = &PrimitiveType{Kind: KindString}
	Void   = &PrimitiveType{Kind: KindVoid}
	Nil    = &PrimitiveType{Kind: KindNil}
	Error  = &PrimitiveType{Kind: KindError}
)

func (p *PrimitiveType) Actual() Type { return p }

func (p *PrimitiveType) CoercesTo(other Type) bool {
	if other == nil {
		return false
	}
	target := other.Actual()
	switch p.Kind {
	case KindError:
		return false
	case KindNil:
		if _, ok := target.(*Record); ok {
			return true
		}
		return target == Nil
	default:
		return target == Type(p)
	}
}

func (p *PrimitiveType) String() string {
	if p.Kind == KindError {
		return "<< error >>"
	}
	return string(p.Kind)
}

// Array is a nominal array type: two separately declared arrays never
// coerce to each other.
type Array struct {
	Elem Type
}

func NewArray(elem Type) *Array {
	return &Array{Elem: elem}
}

func (a *Array) Actual() Type { return a }

func (a *Array) CoercesTo(other Type) bool {
	return other != nil && other.Actual() == Type(a)
}

func (a *Array) String() string {
	if a.Elem == nil {
		return "array of ?"
	}
	return "array of " + a.Elem.String()
}

// Field is one named member of a record type, in declaration order.
type Field struct {
	Name *symbol.Symbol
	Type Type
}

// Record is a nominal record type.
type Record struct {
	Fields []Field
}

func NewRecord(fields []Field) *Record {
	return &Record{Fields: fields}
}

func (r *Record) Actual() Type { return r }

func (r *Record) CoercesTo(other Type) bool {
	return other != nil && other.Actual() == Type(r)
}

// Field returns the declared type of name.
func (r *Record) Field(name *symbol.Symbol) (Type, bool) {
	idx := r.Index(name)
	if idx < 0 {
		return nil, false
	}
	return r.Fields[idx].Type, true
}

// Index returns the position of name, or -1.
func (r *Record) Index(name *symbol.Symbol) int {
	for i, field := range r.Fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, field := range r.Fields {
		parts[i] = field.Name.String() + ": " + field.Type.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Thunk stands for a name in a type declaration group until its right-hand
// side has been bound.
type Thunk struct {
	Name    *symbol.Symbol
	binding Type
}

func NewThunk(name *symbol.Symbol) *Thunk {
	return &Thunk{Name: name}
}

func (t *Thunk) Bind(target Type) {
	t.binding = target
}

func (t *Thunk) Binding() Type {
	return t.binding
}

// IsLoop reports whether following bindings from t reaches only thunks: it
// either revisits a thunk already on the path or ends at an unbound one.
func (t *Thunk) IsLoop() bool {
	b := t.binding
	t.binding = nil
	defer func() { t.binding = b }()
	switch next := b.(type) {
	case nil:
		return true
	case *Thunk:
		return next.IsLoop()
	default:
		return false
	}
}

func (t *Thunk) Actual() Type {
	if t.binding == nil {
		return Error
	}
	return t.binding.Actual()
}

func (t *Thunk) CoercesTo(other Type) bool {
	return t.Actual().CoercesTo(other)
}

func (t *Thunk) String() string {
	return t.Name.String()
}

// Compatible reports whether either type coerces to the other. Equality and
// if/else branches use it so that a record meets nil from either side.
func Compatible(a, b Type) bool {
	return a.CoercesTo(b) || b.CoercesTo(a)
}

// IsReference reports whether values of t live on the heap (string, array,
// record, nil) rather than being plain integers.
func IsReference(t Type) bool {
	switch actual := t.Actual().(type) {
	case *Array, *Record:
		return true
	case *PrimitiveType:
		return actual == String || actual == Nil
	default:
		return false
	}
}
