// Package builtins describes the Tiger standard library: the functions and
// type names bound in the outermost scope of every program. The table is
// immutable and shared by the checker, the interpreter and the compiler.
package builtins

import (
	"strings"

	"github.com/hopsage/TigerC/pkg/symbol"
	"github.com/hopsage/TigerC/pkg/types"
)

// Param is one formal of a library function.
type Param struct {
	Name *symbol.Symbol
	Type types.Type
}

// Function is the signature of one library function.
type Function struct {
	Name   *symbol.Symbol
	Params []Param
	Result types.Type
}

// Descriptor renders the JVM method name and descriptor used to invoke the
// function, e.g. `substring(Ljava/lang/String;II)Ljava/lang/String;`.
func (f Function) Descriptor() string {
	var b strings.Builder
	b.WriteString(f.Name.String())
	b.WriteByte('(')
	for _, p := range f.Params {
		b.WriteString(descriptorOf(p.Type))
	}
	b.WriteByte(')')
	b.WriteString(descriptorOf(f.Result))
	return b.String()
}

func descriptorOf(t types.Type) string {
	switch t.Actual() {
	case types.Int:
		return "I"
	case types.String:
		return "Ljava/lang/String;"
	default:
		return "V"
	}
}

// TypeName binds a built-in type name.
type TypeName struct {
	Name *symbol.Symbol
	Type types.Type
}

// Library is an immutable set of library bindings.
type Library struct {
	class     string
	functions []Function
	types     []TypeName
}

// Class is the JVM class implementing the library.
func (l Library) Class() string {
	return l.class
}

// Functions returns the library functions in declaration order.
func (l Library) Functions() []Function {
	out := make([]Function, len(l.functions))
	copy(out, l.functions)
	return out
}

// Types returns the built-in type names.
func (l Library) Types() []TypeName {
	out := make([]TypeName, len(l.types))
	copy(out, l.types)
	return out
}

// Lookup finds a function by name.
func (l Library) Lookup(name string) (Function, bool) {
	sym := symbol.Intern(name)
	for _, fn := range l.functions {
		if fn.Name == sym {
			return fn, true
		}
	}
	return Function{}, false
}

func fn(name string, result types.Type, params ...Param) Function {
	return Function{Name: symbol.Intern(name), Params: params, Result: result}
}

func p(name string, t types.Type) Param {
	return Param{Name: symbol.Intern(name), Type: t}
}

var standard = Library{
	class: "TigerStdLib",
	functions: []Function{
		fn("print", types.Void, p("s", types.String)),
		fn("printi", types.Void, p("i", types.Int)),
		fn("flush", types.Void),
		fn("getchar", types.String),
		fn("ord", types.Int, p("s", types.String)),
		fn("chr", types.String, p("i", types.Int)),
		fn("size", types.Int, p("s", types.String)),
		fn("substring", types.String, p("s", types.String), p("first", types.Int), p("end", types.Int)),
		fn("concat", types.String, p("s1", types.String), p("s2", types.String)),
		fn("not", types.Int, p("i", types.Int)),
		fn("exit", types.Void, p("i", types.Int)),
	},
	types: []TypeName{
		{Name: symbol.Intern("int"), Type: types.Int},
		{Name: symbol.Intern("string"), Type: types.String},
	},
}

// Standard returns the standard library.
func Standard() Library {
	return standard
}

// New assembles a custom library; tests use it to narrow the set of names.
func New(class string, functions []Function, typeNames []TypeName) Library {
	lib := Library{class: class}
	lib.functions = append(lib.functions, functions...)
	lib.types = append(lib.types, typeNames...)
	return lib
}
