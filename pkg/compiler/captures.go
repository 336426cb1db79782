package compiler

import (
	"sort"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/env"
	"github.com/hopsage/TigerC/pkg/symbol"
	"github.com/hopsage/TigerC/pkg/types"
)

// captureInfo is the lambda lifting plan for one program. Variables are
// identified by their declaring node: a *ast.VarDecl, a parameter's
// *ast.Field, or the *ast.ForExpr of a loop counter.
type captureInfo struct {
	// captures lists, per function, the variables of enclosing activations
	// it receives as trailing parameters, in declaration order.
	captures map[*ast.FunctionDecl][]ast.Node
	// boxed variables are assigned by a function other than their owner and
	// live in one-element heap cells.
	boxed map[ast.Node]bool
	types map[ast.Node]types.Type
	names map[ast.Node]*symbol.Symbol
	// owner is nil for variables of the main program.
	owner map[ast.Node]*ast.FunctionDecl
	order map[ast.Node]int
}

// paramDescriptor is how a captured variable travels between activations.
func (c *captureInfo) paramDescriptor(key ast.Node) string {
	if c.boxed[key] {
		return cellDescriptor(c.types[key])
	}
	return descriptor(c.types[key])
}

// boxedInOrder lists boxed variables in declaration order.
func (c *captureInfo) boxedInOrder() []ast.Node {
	out := make([]ast.Node, 0, len(c.boxed))
	for key := range c.boxed {
		out = append(out, key)
	}
	c.sortKeys(out)
	return out
}

func (c *captureInfo) sortKeys(keys []ast.Node) {
	sort.Slice(keys, func(i, j int) bool { return c.order[keys[i]] < c.order[keys[j]] })
}

func cellDescriptor(t types.Type) string {
	if isInt(t) {
		return "[I"
	}
	return objectArrayDesc
}

type binding struct {
	// key is set for variables, fn for functions.
	key   ast.Node
	fn    *ast.FunctionDecl
	owner *ast.FunctionDecl
}

type captureAnalyzer struct {
	typeOf    func(ast.Node) types.Type
	info      *captureInfo
	refs      map[*ast.FunctionDecl]map[ast.Node]struct{}
	calls     map[*ast.FunctionDecl]map[*ast.FunctionDecl]struct{}
	functions []*ast.FunctionDecl
	err       error
}

func analyzeCaptures(program ast.Expr, typeOf func(ast.Node) types.Type) (*captureInfo, error) {
	a := &captureAnalyzer{
		typeOf: typeOf,
		info: &captureInfo{
			captures: make(map[*ast.FunctionDecl][]ast.Node),
			boxed:    make(map[ast.Node]bool),
			types:    make(map[ast.Node]types.Type),
			names:    make(map[ast.Node]*symbol.Symbol),
			owner:    make(map[ast.Node]*ast.FunctionDecl),
			order:    make(map[ast.Node]int),
		},
		refs:  make(map[*ast.FunctionDecl]map[ast.Node]struct{}),
		calls: make(map[*ast.FunctionDecl]map[*ast.FunctionDecl]struct{}),
	}
	scope := env.New[binding]()
	a.walk(program, nil, scope)
	if a.err != nil {
		return nil, a.err
	}
	a.solve()
	return a.info, nil
}

func (a *captureAnalyzer) refSet(fn *ast.FunctionDecl) map[ast.Node]struct{} {
	set, ok := a.refs[fn]
	if !ok {
		set = make(map[ast.Node]struct{})
		a.refs[fn] = set
	}
	return set
}

func (a *captureAnalyzer) callSet(fn *ast.FunctionDecl) map[*ast.FunctionDecl]struct{} {
	set, ok := a.calls[fn]
	if !ok {
		set = make(map[*ast.FunctionDecl]struct{})
		a.calls[fn] = set
	}
	return set
}

func (a *captureAnalyzer) declare(key ast.Node, name *symbol.Symbol, owner *ast.FunctionDecl, t types.Type) {
	if t == nil && a.err == nil {
		a.err = internalErrorf(key, "no type recorded for %s", name)
	}
	a.info.order[key] = len(a.info.order)
	a.info.types[key] = t
	a.info.names[key] = name
	a.info.owner[key] = owner
}

func (a *captureAnalyzer) walk(node ast.Node, fn *ast.FunctionDecl, scope *env.Environment[binding]) {
	switch n := node.(type) {
	case nil:
		return
	case *ast.LetExpr:
		scope.BeginScope()
		defer scope.EndScope()
		for _, decl := range n.Decls {
			a.decl(decl, fn, scope)
		}
		a.walk(n.Body, fn, scope)
		return
	case *ast.ForExpr:
		a.walk(n.Lo, fn, scope)
		a.walk(n.Hi, fn, scope)
		scope.BeginScope()
		defer scope.EndScope()
		a.declare(n, n.Var, fn, types.Int)
		scope.Extend(n.Var, binding{key: n, owner: fn})
		a.walk(n.Body, fn, scope)
		return
	case *ast.SimpleVar:
		if b, ok := scope.Lookup(n.Name); ok && b.key != nil && b.owner != fn {
			a.refSet(fn)[b.key] = struct{}{}
		}
		return
	case *ast.AssignExpr:
		if target, ok := n.Target.(*ast.SimpleVar); ok {
			if b, ok := scope.Lookup(target.Name); ok && b.key != nil && b.owner != fn {
				a.info.boxed[b.key] = true
			}
		}
	case *ast.CallExpr:
		if b, ok := scope.Lookup(n.Func); ok && b.fn != nil {
			a.callSet(fn)[b.fn] = struct{}{}
		}
	}
	for _, child := range ast.Children(node) {
		a.walk(child, fn, scope)
	}
}

func (a *captureAnalyzer) decl(decl ast.Decl, fn *ast.FunctionDecl, scope *env.Environment[binding]) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		a.walk(d.Init, fn, scope)
		a.declare(d, d.Name, fn, a.typeOf(d))
		scope.Extend(d.Name, binding{key: d, owner: fn})
	case *ast.FunctionGroup:
		for _, member := range d.Functions {
			scope.Extend(member.Name, binding{fn: member, owner: fn})
			a.functions = append(a.functions, member)
			// A nested function can only be called from inside fn, so its
			// captures are fn's too.
			a.callSet(fn)[member] = struct{}{}
		}
		for _, member := range d.Functions {
			body := scope.Snapshot()
			body.BeginScope()
			for _, param := range member.Params {
				a.declare(param, param.Name, member, a.typeOf(param))
				body.Extend(param.Name, binding{key: param, owner: member})
			}
			a.walk(member.Body, member, body)
		}
	}
}

// solve propagates captures through calls until nothing changes: a function
// must receive every variable its callees need that it does not own.
func (a *captureAnalyzer) solve() {
	sets := make(map[*ast.FunctionDecl]map[ast.Node]struct{}, len(a.functions))
	for _, fn := range a.functions {
		set := make(map[ast.Node]struct{})
		for key := range a.refs[fn] {
			set[key] = struct{}{}
		}
		sets[fn] = set
	}
	for changed := true; changed; {
		changed = false
		for _, fn := range a.functions {
			for callee := range a.calls[fn] {
				for key := range sets[callee] {
					if a.info.owner[key] == fn {
						continue
					}
					if _, ok := sets[fn][key]; !ok {
						sets[fn][key] = struct{}{}
						changed = true
					}
				}
			}
		}
	}
	for _, fn := range a.functions {
		keys := make([]ast.Node, 0, len(sets[fn]))
		for key := range sets[fn] {
			keys = append(keys, key)
		}
		a.info.sortKeys(keys)
		a.info.captures[fn] = keys
	}
}
