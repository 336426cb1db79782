package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/env"
	"github.com/hopsage/TigerC/pkg/symbol"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindArray
	KindRecord
	KindNil
	KindVoid
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindRecord:
		return "record"
	case KindNil:
		return "nil"
	case KindVoid:
		return "void"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// IntValue wraps with 32-bit two's complement arithmetic.
type IntValue struct {
	Val int32
}

func (v IntValue) Kind() Kind { return KindInt }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

// VoidValue is the result of expressions that produce no value.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

//-----------------------------------------------------------------------------
// Aggregates
//-----------------------------------------------------------------------------

var (
	ErrIndexOutOfBounds = errors.New("array index out of bounds")
	ErrUnsetField       = errors.New("record has no field")
)

type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArrayValue fills every cell with the same init value.
func NewArrayValue(size int, init Value) *ArrayValue {
	elems := make([]Value, size)
	for i := range elems {
		elems[i] = init
	}
	return &ArrayValue{Elements: elems}
}

func (v *ArrayValue) Get(index int32) (Value, error) {
	if index < 0 || int(index) >= len(v.Elements) {
		return nil, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfBounds, index, len(v.Elements))
	}
	return v.Elements[index], nil
}

func (v *ArrayValue) Set(index int32, value Value) error {
	if index < 0 || int(index) >= len(v.Elements) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfBounds, index, len(v.Elements))
	}
	v.Elements[index] = value
	return nil
}

// RecordValue is a mutable map from field names to values. Field order is
// kept for printing.
type RecordValue struct {
	order  []*symbol.Symbol
	fields map[*symbol.Symbol]Value
}

func (v *RecordValue) Kind() Kind { return KindRecord }

func NewRecordValue() *RecordValue {
	return &RecordValue{fields: make(map[*symbol.Symbol]Value)}
}

// Init adds a field during construction. Initializing the same field twice
// is an error.
func (v *RecordValue) Init(name *symbol.Symbol, value Value) error {
	if _, exists := v.fields[name]; exists {
		return fmt.Errorf("duplicate initialization of field %s", name)
	}
	v.order = append(v.order, name)
	v.fields[name] = value
	return nil
}

func (v *RecordValue) Get(name *symbol.Symbol) (Value, error) {
	value, ok := v.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w named %s", ErrUnsetField, name)
	}
	return value, nil
}

func (v *RecordValue) Set(name *symbol.Symbol, value Value) error {
	if _, ok := v.fields[name]; !ok {
		return fmt.Errorf("%w named %s", ErrUnsetField, name)
	}
	v.fields[name] = value
	return nil
}

// Fields lists field names in initialization order.
func (v *RecordValue) Fields() []*symbol.Symbol {
	out := make([]*symbol.Symbol, len(v.order))
	copy(out, v.order)
	return out
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a closure over the scope chain its group was declared in.
type FunctionValue struct {
	Declaration *ast.FunctionDecl
	Closure     *env.Environment[Value]
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext is handed to library implementations.
type NativeCallContext struct {
	Context context.Context
	Call    *ast.CallExpr
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }
