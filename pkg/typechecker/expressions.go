package typechecker

import (
	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/types"
)

func (c *Checker) checkExpr(expr ast.Expr) types.Type {
	return c.record(expr, c.inferExpr(expr))
}

func (c *Checker) inferExpr(expr ast.Expr) types.Type {
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.Int
	case *ast.StringLit:
		return types.String
	case *ast.NilExpr:
		return types.Nil
	case *ast.BreakExpr:
		if c.loopDepth > 0 {
			return types.Void
		}
		c.sink.errorf(e, "BREAK not properly nested.")
		return types.Error
	case *ast.SeqExpr:
		return c.checkSeq(e)
	case *ast.VarExpr:
		return c.checkVar(e.Var)
	case *ast.AssignExpr:
		return c.checkAssign(e)
	case *ast.CallExpr:
		return c.checkCall(e)
	case *ast.OpExpr:
		return c.checkOp(e)
	case *ast.IfExpr:
		return c.checkIf(e)
	case *ast.IfElseExpr:
		return c.checkIfElse(e)
	case *ast.WhileExpr:
		return c.checkWhile(e)
	case *ast.ForExpr:
		return c.checkFor(e)
	case *ast.LetExpr:
		return c.checkLet(e)
	case *ast.ArrayExpr:
		return c.checkArray(e)
	case *ast.RecordExpr:
		return c.checkRecord(e)
	}
	return types.Error
}

// checkSeq yields the last expression's type, VOID when empty, and ERROR
// when any member failed.
func (c *Checker) checkSeq(e *ast.SeqExpr) types.Type {
	result := types.Type(types.Void)
	failed := false
	for _, sub := range e.Exprs {
		result = c.checkExpr(sub)
		if isError(result) {
			failed = true
		}
	}
	if failed {
		return types.Error
	}
	return result
}

func (c *Checker) checkLet(e *ast.LetExpr) types.Type {
	enclosing := c.declsOK
	c.declsOK = !c.redeclaration(e.Decls)

	c.venv.BeginScope()
	c.tenv.BeginScope()
	for _, decl := range e.Decls {
		c.checkDecl(decl)
	}
	body := c.checkExpr(e.Body)
	c.tenv.EndScope()
	c.venv.EndScope()

	if !c.declsOK {
		body = types.Error
	}
	c.declsOK = enclosing
	return body
}

func (c *Checker) checkAssign(e *ast.AssignExpr) types.Type {
	if simple, ok := e.Target.(*ast.SimpleVar); ok {
		if entry, found := c.venv.Lookup(simple.Name); found {
			if v, isVar := entry.(*VarEntry); isVar && !v.Assignable {
				c.sink.errorf(simple, "Variable %s is not assignable.", simple.Name)
				c.checkExpr(e.Value)
				return types.Error
			}
		}
	}

	target := c.checkVar(e.Target)
	value := c.checkExpr(e.Value)
	if isError(target) || isError(value) {
		return types.Error
	}
	if !value.CoercesTo(target) {
		c.sink.errorf(e, "Assignment between incompatible types  << expected: %s, found: %s >>", target, value)
		return types.Error
	}
	if isVoid(value) {
		c.sink.errorf(e, "Cannot make an assignment of VOID types.")
		return types.Error
	}
	return types.Void
}

func (c *Checker) checkCall(e *ast.CallExpr) types.Type {
	entry, ok := c.venv.Lookup(e.Func)
	if !ok {
		c.sink.errorf(e, "Symbol %s is undefined.", e.Func)
		return types.Error
	}
	fn, ok := entry.(*FuncEntry)
	if !ok {
		c.sink.errorf(e, "Variable %s is not a function.", e.Func)
		return types.Error
	}

	sound := true
	if len(fn.Params) != len(e.Args) {
		c.sink.errorf(e, "Wrong number of arguments for function %s.", e.Func)
		sound = false
	}
	for i, arg := range e.Args {
		argType := c.checkExpr(arg)
		if i >= len(fn.Params) {
			continue
		}
		if isError(argType) {
			sound = false
			continue
		}
		if expected := fn.Params[i].Type; !argType.CoercesTo(expected) {
			c.sink.errorf(arg, "Incompatible argument type for function %s  << expected: %s, found: %s >>", e.Func, expected, argType)
			sound = false
		}
	}
	if !sound {
		return types.Error
	}
	return fn.Result
}

func (c *Checker) checkOp(e *ast.OpExpr) types.Type {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)
	if isError(left) || isError(right) {
		return types.Error
	}

	var sound bool
	switch {
	case e.Op.IsArithmetic(), e.Op.IsLogical():
		sound = left.CoercesTo(types.Int) && right.CoercesTo(types.Int)
	case e.Op.IsEquality():
		sound = !isVoid(left) && types.Compatible(left, right)
	default:
		sound = (left.CoercesTo(types.Int) && right.CoercesTo(types.Int)) ||
			(left.CoercesTo(types.String) && right.CoercesTo(types.String))
	}
	if !sound {
		c.sink.errorf(e, "Cannot apply '%s' to %s and %s.", e.Op, left, right)
		return types.Error
	}
	return types.Int
}

func (c *Checker) checkTest(test ast.Expr) bool {
	t := c.checkExpr(test)
	if isError(t) {
		return false
	}
	if !t.CoercesTo(types.Int) {
		c.sink.errorf(test, "Test expression must be of type INT.")
		return false
	}
	return true
}

func (c *Checker) checkIf(e *ast.IfExpr) types.Type {
	goodTest := c.checkTest(e.Test)
	then := c.checkExpr(e.Then)
	if isError(then) {
		return types.Error
	}
	if !isVoid(then) {
		c.sink.errorf(e.Then, "Conditional clause must be of VOID type.")
		return types.Error
	}
	if !goodTest {
		return types.Error
	}
	return types.Void
}

func (c *Checker) checkIfElse(e *ast.IfElseExpr) types.Type {
	goodTest := c.checkTest(e.Test)
	then := c.checkExpr(e.Then)
	els := c.checkExpr(e.Else)
	if isError(then) || isError(els) {
		return types.Error
	}
	if !types.Compatible(then, els) {
		c.sink.errorf(e, "then/else clauses must be of the same type.")
		return types.Error
	}
	if !goodTest {
		return types.Error
	}
	// Prefer the record over nil when one branch is nil.
	if then.CoercesTo(types.Nil) {
		return els
	}
	return then
}

func (c *Checker) checkWhile(e *ast.WhileExpr) types.Type {
	goodTest := c.checkTest(e.Test)
	c.loopDepth++
	body := c.checkExpr(e.Body)
	c.loopDepth--
	if isError(body) {
		return types.Error
	}
	if !isVoid(body) {
		c.sink.errorf(e.Body, "Body of WHILE must be of VOID type.")
		return types.Error
	}
	if !goodTest {
		return types.Error
	}
	return types.Void
}

func (c *Checker) checkFor(e *ast.ForExpr) types.Type {
	c.venv.BeginScope()
	defer c.venv.EndScope()

	lo := c.checkExpr(e.Lo)
	hi := c.checkExpr(e.Hi)
	sound := !isError(lo) && !isError(hi)
	if sound && !lo.CoercesTo(types.Int) {
		c.sink.errorf(e.Lo, "Initializing expression must be of type INT.")
		sound = false
	} else if sound && !hi.CoercesTo(types.Int) {
		c.sink.errorf(e.Hi, "Counter limit expression must be of type INT.")
		sound = false
	}

	c.venv.Extend(e.Var, &VarEntry{Type: types.Int, Assignable: false})
	c.loopDepth++
	body := c.checkExpr(e.Body)
	c.loopDepth--

	if isError(body) {
		return types.Error
	}
	if !isVoid(body) {
		c.sink.errorf(e.Body, "Body of FOR must be of VOID type.")
		return types.Error
	}
	if !sound {
		return types.Error
	}
	return types.Void
}

func (c *Checker) checkArray(e *ast.ArrayExpr) types.Type {
	named, ok := c.tenv.Lookup(e.Type)
	if !ok {
		c.sink.errorf(e, "Undefined type.")
		return types.Error
	}
	arr, ok := named.Actual().(*types.Array)
	if !ok {
		c.sink.errorf(e, "Attempt to use non-ARRAY type %s as if it were an ARRAY.", named)
		return types.Error
	}
	size := c.checkExpr(e.Size)
	init := c.checkExpr(e.Init)
	if isError(size) || isError(init) {
		return types.Error
	}
	if !size.CoercesTo(types.Int) {
		c.sink.errorf(e.Size, "Array size must be of type INT.")
		return types.Error
	}
	if !init.CoercesTo(arr.Elem) {
		c.sink.errorf(e.Init, "Initial expression is of incompatible type for array element  << expected: %s, found: %s >>", arr.Elem, init)
		return types.Error
	}
	return named
}

func (c *Checker) checkRecord(e *ast.RecordExpr) types.Type {
	named, ok := c.tenv.Lookup(e.Type)
	if !ok {
		c.sink.errorf(e, "Undefined type.")
		return types.Error
	}
	rec, ok := named.Actual().(*types.Record)
	if !ok {
		c.sink.errorf(e, "Type %s is not a RECORD.", named)
		return types.Error
	}

	switch {
	case len(e.Fields) == 0 && len(rec.Fields) != 0:
		c.sink.errorf(e, "No field initializations specified.")
		return types.Error
	case len(e.Fields) != len(rec.Fields):
		c.sink.errorf(e, "Wrong number of initializations in RECORD.")
		for _, init := range e.Fields {
			c.checkExpr(init.Value)
		}
		return types.Error
	}

	// Initializers follow declaration order.
	sound := true
	for i, init := range e.Fields {
		value := c.checkExpr(init.Value)
		expected := rec.Fields[i]
		c.record(init, expected.Type)
		switch {
		case expected.Name != init.Name:
			c.sink.errorf(e, "Wrong field (expected %s, found %s)", expected.Name, init.Name)
			sound = false
		case isError(value):
			sound = false
		case !value.CoercesTo(expected.Type):
			c.sink.errorf(init.Value, "Initial value of expression is of wrong type.")
			sound = false
		}
	}
	if !sound {
		return types.Error
	}
	return named
}

func (c *Checker) checkVar(v ast.Var) types.Type {
	return c.record(v, c.inferVar(v))
}

func (c *Checker) inferVar(v ast.Var) types.Type {
	switch lv := v.(type) {
	case *ast.SimpleVar:
		entry, ok := c.venv.Lookup(lv.Name)
		if !ok {
			c.sink.errorf(lv, "Symbol %s is undefined.", lv.Name)
			return types.Error
		}
		variable, ok := entry.(*VarEntry)
		if !ok {
			c.sink.errorf(lv, "Cannot reference function %s() as if it were a variable.", lv.Name)
			return types.Error
		}
		return variable.Type
	case *ast.FieldVar:
		base := c.checkVar(lv.Var)
		if isError(base) {
			return types.Error
		}
		rec, ok := base.Actual().(*types.Record)
		if !ok {
			c.sink.errorf(lv, "Attempt to access non-existent field from non-RECORD variable.")
			return types.Error
		}
		t, ok := rec.Field(lv.Field)
		if !ok {
			c.sink.errorf(lv, "Undefined field for type %s", base)
			return types.Error
		}
		return t
	case *ast.SubscriptVar:
		base := c.checkVar(lv.Var)
		index := c.checkExpr(lv.Index)
		if isError(base) {
			return types.Error
		}
		arr, ok := base.Actual().(*types.Array)
		if !ok {
			c.sink.errorf(lv, "Attempt to index non-ARRAY type variable.")
			return types.Error
		}
		if isError(index) {
			return types.Error
		}
		if !index.CoercesTo(types.Int) {
			c.sink.errorf(lv.Index, "Index must be of type INT")
			return types.Error
		}
		return arr.Elem
	}
	return types.Error
}
