package interpreter

import (
	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/runtime"
)

var (
	zero = runtime.IntValue{Val: 0}
	one  = runtime.IntValue{Val: 1}
)

func boolValue(b bool) runtime.IntValue {
	if b {
		return one
	}
	return zero
}

func (i *Interpreter) evaluate(expr ast.Expr, e *Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return runtime.IntValue{Val: n.Value}, nil
	case *ast.StringLit:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.NilExpr:
		return runtime.NilValue{}, nil
	case *ast.BreakExpr:
		return nil, breakSignal{}
	case *ast.SeqExpr:
		var result runtime.Value = runtime.VoidValue{}
		for _, sub := range n.Exprs {
			v, err := i.evaluate(sub, e)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	case *ast.VarExpr:
		return i.evaluateVar(n.Var, e)
	case *ast.AssignExpr:
		return i.evaluateAssign(n, e)
	case *ast.CallExpr:
		return i.evaluateCall(n, e)
	case *ast.OpExpr:
		return i.evaluateOp(n, e)
	case *ast.IfExpr:
		test, err := i.evaluateInt(n.Test, e)
		if err != nil {
			return nil, err
		}
		if test != 0 {
			if _, err := i.evaluate(n.Then, e); err != nil {
				return nil, err
			}
		}
		return runtime.VoidValue{}, nil
	case *ast.IfElseExpr:
		test, err := i.evaluateInt(n.Test, e)
		if err != nil {
			return nil, err
		}
		if test != 0 {
			return i.evaluate(n.Then, e)
		}
		return i.evaluate(n.Else, e)
	case *ast.WhileExpr:
		return i.evaluateWhile(n, e)
	case *ast.ForExpr:
		return i.evaluateFor(n, e)
	case *ast.LetExpr:
		return i.evaluateLet(n, e)
	case *ast.ArrayExpr:
		size, err := i.evaluateInt(n.Size, e)
		if err != nil {
			return nil, err
		}
		if size < 0 {
			return nil, runtimeErrorf(n, nil, "negative array size %d", size)
		}
		// The initializer runs once; every cell shares its value.
		init, err := i.evaluate(n.Init, e)
		if err != nil {
			return nil, err
		}
		return runtime.NewArrayValue(int(size), init), nil
	case *ast.RecordExpr:
		rec := runtime.NewRecordValue()
		for _, field := range n.Fields {
			v, err := i.evaluate(field.Value, e)
			if err != nil {
				return nil, err
			}
			if err := rec.Init(field.Name, v); err != nil {
				return nil, runtimeErrorf(field, err, "%s", err.Error())
			}
		}
		return rec, nil
	}
	return nil, internalErrorf("unsupported expression %T", expr)
}

func (i *Interpreter) evaluateInt(expr ast.Expr, e *Environment) (int32, error) {
	v, err := i.evaluate(expr, e)
	if err != nil {
		return 0, err
	}
	n, ok := v.(runtime.IntValue)
	if !ok {
		return 0, internalErrorf("expected int, found %s", v.Kind())
	}
	return n.Val, nil
}

func (i *Interpreter) evaluateOp(n *ast.OpExpr, e *Environment) (runtime.Value, error) {
	// a & b is `if a then b else 0`; a | b is `if a then 1 else b`.
	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		left, err := i.evaluateInt(n.Left, e)
		if err != nil {
			return nil, err
		}
		if n.Op == ast.OpAnd && left == 0 {
			return zero, nil
		}
		if n.Op == ast.OpOr && left != 0 {
			return one, nil
		}
		right, err := i.evaluateInt(n.Right, e)
		if err != nil {
			return nil, err
		}
		return runtime.IntValue{Val: right}, nil
	}

	left, err := i.evaluate(n.Left, e)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right, e)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpEq:
		return boolValue(runtime.Equal(left, right)), nil
	case ast.OpNe:
		return boolValue(!runtime.Equal(left, right)), nil
	}

	if ls, ok := left.(runtime.StringValue); ok {
		rs, ok := right.(runtime.StringValue)
		if !ok {
			return nil, internalErrorf("cannot compare string with %s", right.Kind())
		}
		return compareStrings(n.Op, ls.Val, rs.Val)
	}
	l, lok := left.(runtime.IntValue)
	r, rok := right.(runtime.IntValue)
	if !lok || !rok {
		return nil, internalErrorf("operator %s applied to %s and %s", n.Op, left.Kind(), right.Kind())
	}
	switch n.Op {
	case ast.OpPlus:
		return runtime.IntValue{Val: l.Val + r.Val}, nil
	case ast.OpMinus:
		return runtime.IntValue{Val: l.Val - r.Val}, nil
	case ast.OpTimes:
		return runtime.IntValue{Val: l.Val * r.Val}, nil
	case ast.OpDiv:
		if r.Val == 0 {
			return nil, runtimeErrorf(n, nil, "division by zero")
		}
		return runtime.IntValue{Val: l.Val / r.Val}, nil
	case ast.OpLt:
		return boolValue(l.Val < r.Val), nil
	case ast.OpLe:
		return boolValue(l.Val <= r.Val), nil
	case ast.OpGt:
		return boolValue(l.Val > r.Val), nil
	case ast.OpGe:
		return boolValue(l.Val >= r.Val), nil
	}
	return nil, internalErrorf("unknown operator %s", n.Op)
}

func compareStrings(op ast.Operator, a, b string) (runtime.Value, error) {
	switch op {
	case ast.OpLt:
		return boolValue(a < b), nil
	case ast.OpLe:
		return boolValue(a <= b), nil
	case ast.OpGt:
		return boolValue(a > b), nil
	case ast.OpGe:
		return boolValue(a >= b), nil
	}
	return nil, internalErrorf("operator %s applied to strings", op)
}
