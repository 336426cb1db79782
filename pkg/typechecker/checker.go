package typechecker

import (
	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/builtins"
	"github.com/hopsage/TigerC/pkg/env"
	"github.com/hopsage/TigerC/pkg/symbol"
	"github.com/hopsage/TigerC/pkg/types"
)

// Checker traverses a Tiger program and records diagnostics.
type Checker struct {
	lib  builtins.Library
	venv *env.Environment[Entry]
	tenv *env.Environment[types.Type]
	sink *sink
	// inferred holds the type computed for every visited expression,
	// lvalue and declaration.
	inferred  map[ast.Node]types.Type
	loopDepth int
	// declsOK is cleared by any unsound declaration of the innermost let.
	declsOK bool
}

// New returns a checker whose outermost scope holds lib.
func New(lib builtins.Library) *Checker {
	return &Checker{lib: lib}
}

// Check type-checks a whole program. The returned type is the program's
// type; it is types.Error whenever diagnostics were recorded along the way
// that invalidate it.
func (c *Checker) Check(expr ast.Expr) (types.Type, []Diagnostic) {
	c.venv = env.New[Entry]()
	c.tenv = env.New[types.Type]()
	for _, tn := range c.lib.Types() {
		c.tenv.Extend(tn.Name, tn.Type)
	}
	for _, fn := range c.lib.Functions() {
		params := make([]types.Field, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = types.Field{Name: p.Name, Type: p.Type}
		}
		c.venv.Extend(fn.Name, &FuncEntry{Params: params, Result: fn.Result})
	}
	// Programs may shadow library names.
	c.venv.BeginScope()
	c.tenv.BeginScope()

	c.sink = &sink{}
	c.inferred = make(map[ast.Node]types.Type)
	c.loopDepth = 0
	c.declsOK = true

	if expr == nil {
		return types.Void, nil
	}
	result := c.checkExpr(expr)
	return result, c.sink.diags
}

// TypeOf returns the type recorded for node by the last Check, or nil if
// node was never visited.
func (c *Checker) TypeOf(node ast.Node) types.Type {
	if c.inferred == nil {
		return nil
	}
	return c.inferred[node]
}

// child returns a checker for one function body: it shares the environments,
// the sink and the recorded types, but starts outside any loop.
func (c *Checker) child() *Checker {
	return &Checker{
		lib:      c.lib,
		venv:     c.venv,
		tenv:     c.tenv,
		sink:     c.sink,
		inferred: c.inferred,
		declsOK:  true,
	}
}

func (c *Checker) record(node ast.Node, t types.Type) types.Type {
	c.inferred[node] = t
	return t
}

func isError(t types.Type) bool {
	return t == nil || t.Actual() == types.Error
}

func isVoid(t types.Type) bool {
	return t.CoercesTo(types.Void)
}

// redeclaration reports duplicate names among one let's declarations. Types
// and values live in separate namespaces.
func (c *Checker) redeclaration(decls []ast.Decl) bool {
	values := make(map[*symbol.Symbol]struct{})
	typeNames := make(map[*symbol.Symbol]struct{})
	duplicates := false
	seen := func(set map[*symbol.Symbol]struct{}, name *symbol.Symbol) bool {
		if _, ok := set[name]; ok {
			return true
		}
		set[name] = struct{}{}
		return false
	}
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.VarDecl:
			if seen(values, d.Name) {
				c.sink.errorf(d, "Symbol %s is already declared in this scope.", d.Name)
				duplicates = true
			}
		case *ast.FunctionGroup:
			for _, fn := range d.Functions {
				if seen(values, fn.Name) {
					c.sink.errorf(fn, "Symbol %s is already declared in this scope.", fn.Name)
					duplicates = true
				}
			}
		case *ast.TypeGroup:
			for _, td := range d.Types {
				if seen(typeNames, td.Name) {
					c.sink.errorf(td, "Type symbol %s is already declared in this scope.", td.Name)
					duplicates = true
				}
			}
		}
	}
	return duplicates
}

func (c *Checker) checkDecl(decl ast.Decl) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(d)
	case *ast.FunctionGroup:
		c.checkFunctionGroup(d)
	case *ast.TypeGroup:
		c.checkTypeGroup(d)
	}
}

func (c *Checker) checkVarDecl(d *ast.VarDecl) {
	initType := c.checkExpr(d.Init)
	sound := !isError(initType)
	bound := initType

	if sound && isVoid(initType) {
		c.sink.errorf(d.Init, "Cannot initialize with VOID type.")
		sound = false
	}
	if d.TypeName != nil {
		declared, ok := c.tenv.Lookup(d.TypeName)
		if !ok {
			c.sink.errorf(d, "Type %s is not defined in this scope.", d.TypeName)
			sound = false
			bound = types.Error
		} else {
			if sound && !initType.CoercesTo(declared) {
				c.sink.errorf(d, "Initializing expression is of incompatible type for variable %s << expected: %s, found: %s >>.", d.Name, declared, initType)
				sound = false
			}
			bound = declared
		}
	} else if sound && initType.CoercesTo(types.Nil) {
		c.sink.errorf(d, "Cannot determine type of variable %s from nil initialization.", d.Name)
		sound = false
		bound = types.Error
	}
	if !sound && d.TypeName == nil {
		bound = types.Error
	}

	c.venv.Extend(d.Name, &VarEntry{Type: bound, Assignable: true})
	c.record(d, bound)
	c.declsOK = c.declsOK && sound
}

func (c *Checker) checkFunctionGroup(group *ast.FunctionGroup) {
	entries := make([]*FuncEntry, len(group.Functions))

	// Every signature is bound before any body is checked.
	for i, fn := range group.Functions {
		result := types.Type(types.Void)
		if fn.Result != nil {
			t, ok := c.tenv.Lookup(fn.Result)
			if !ok {
				c.sink.errorf(fn, "Undefined type.")
				t = types.Error
				c.declsOK = false
			}
			result = t
		}
		params, ok := c.typeFields(fn.Params)
		c.declsOK = c.declsOK && ok
		entries[i] = &FuncEntry{Params: params, Result: result}
		if !c.venv.Extend(fn.Name, entries[i]) {
			c.declsOK = false
		}
		c.record(fn, result)
	}

	for i, fn := range group.Functions {
		entry := entries[i]
		c.venv.BeginScope()
		for _, param := range entry.Params {
			c.venv.Extend(param.Name, &VarEntry{Type: param.Type, Assignable: true})
		}
		body := c.child().checkExpr(fn.Body)
		c.venv.EndScope()

		if isError(body) {
			c.declsOK = false
			continue
		}
		if !body.CoercesTo(entry.Result) {
			c.sink.errorf(fn.Body, "Return value of function body must be of type %s", entry.Result)
			c.declsOK = false
		}
	}
}

// typeFields resolves formals or record fields, dropping repeated names.
func (c *Checker) typeFields(fields []*ast.Field) ([]types.Field, bool) {
	out := make([]types.Field, 0, len(fields))
	defined := make(map[*symbol.Symbol]struct{}, len(fields))
	sound := true
	for _, field := range fields {
		t, ok := c.tenv.Lookup(field.TypeName)
		if !ok {
			c.sink.errorf(field, "Undefined type:  %s", field.TypeName)
			t = types.Error
			sound = false
		}
		c.record(field, t)
		if _, dup := defined[field.Name]; dup {
			c.sink.errorf(field, "Field %s is already defined in this scope.", field.Name)
			sound = false
			continue
		}
		defined[field.Name] = struct{}{}
		out = append(out, types.Field{Name: field.Name, Type: t})
	}
	return out, sound
}

// checkTypeGroup binds one thunk per name, then every right-hand side, and
// only then looks for cycles, so forward references inside the group are
// not mistaken for loops.
func (c *Checker) checkTypeGroup(group *ast.TypeGroup) {
	thunks := make([]*types.Thunk, len(group.Types))
	for i, decl := range group.Types {
		thunks[i] = types.NewThunk(decl.Name)
		c.tenv.Extend(decl.Name, thunks[i])
	}

	for i, decl := range group.Types {
		t := c.checkTypeExpr(decl.Type)
		if t == types.Error {
			c.declsOK = false
		}
		thunks[i].Bind(t)
		c.record(decl, thunks[i])
	}

	var looping []*types.Thunk
	for _, th := range thunks {
		if th.IsLoop() {
			looping = append(looping, th)
		}
	}
	if len(looping) == 0 {
		return
	}
	c.sink.errorf(group, "Cycle detected in type declaration")
	c.declsOK = false
	for _, th := range looping {
		th.Bind(types.Error)
	}
}

func (c *Checker) checkTypeExpr(expr ast.TypeExpr) types.Type {
	switch t := expr.(type) {
	case *ast.NameType:
		bound, ok := c.tenv.Lookup(t.Name)
		if !ok {
			c.sink.errorf(t, "Undefined type.")
			return c.record(t, types.Error)
		}
		return c.record(t, bound)
	case *ast.ArrayType:
		elem, ok := c.tenv.Lookup(t.Elem)
		if !ok {
			c.sink.errorf(t, "Undefined type.")
			return c.record(t, types.Error)
		}
		return c.record(t, types.NewArray(elem))
	case *ast.RecordType:
		fields, ok := c.typeFields(t.Fields)
		if !ok {
			return c.record(t, types.Error)
		}
		return c.record(t, types.NewRecord(fields))
	}
	return types.Error
}
