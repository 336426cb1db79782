package interpreter

import (
	"errors"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/runtime"
)

func isBreak(err error) bool {
	var sig breakSignal
	return errors.As(err, &sig)
}

func (i *Interpreter) evaluateWhile(n *ast.WhileExpr, e *Environment) (runtime.Value, error) {
	for {
		if err := i.checkContext(); err != nil {
			return nil, err
		}
		test, err := i.evaluateInt(n.Test, e)
		if err != nil {
			return nil, err
		}
		if test == 0 {
			break
		}
		if _, err := i.evaluate(n.Body, e); err != nil {
			if isBreak(err) {
				break
			}
			return nil, err
		}
	}
	return runtime.VoidValue{}, nil
}

func (i *Interpreter) evaluateFor(n *ast.ForExpr, e *Environment) (runtime.Value, error) {
	lo, err := i.evaluateInt(n.Lo, e)
	if err != nil {
		return nil, err
	}
	hi, err := i.evaluateInt(n.Hi, e)
	if err != nil {
		return nil, err
	}

	e.BeginScope()
	defer e.EndScope()
	e.Extend(n.Var, runtime.IntValue{Val: lo})
	// The counter is widened so hi = MaxInt32 terminates.
	for v := int64(lo); v <= int64(hi); v++ {
		if err := i.checkContext(); err != nil {
			return nil, err
		}
		e.Update(n.Var, runtime.IntValue{Val: int32(v)})
		if _, err := i.evaluate(n.Body, e); err != nil {
			if isBreak(err) {
				break
			}
			return nil, err
		}
	}
	return runtime.VoidValue{}, nil
}

// evaluateLet opens one scope per declaration; a function group closes over
// exactly the bindings that precede it plus its own members.
func (i *Interpreter) evaluateLet(n *ast.LetExpr, e *Environment) (runtime.Value, error) {
	pushed := 0
	defer func() {
		for ; pushed > 0; pushed-- {
			e.EndScope()
		}
	}()
	for _, decl := range n.Decls {
		switch d := decl.(type) {
		case *ast.VarDecl:
			v, err := i.evaluate(d.Init, e)
			if err != nil {
				return nil, err
			}
			e.BeginScope()
			pushed++
			e.Extend(d.Name, v)
		case *ast.FunctionGroup:
			e.BeginScope()
			pushed++
			closure := e.Snapshot()
			for _, fn := range d.Functions {
				e.Extend(fn.Name, &runtime.FunctionValue{Declaration: fn, Closure: closure})
			}
		case *ast.TypeGroup:
		default:
			return nil, internalErrorf("unsupported declaration %T", decl)
		}
	}
	if n.Body == nil {
		return runtime.VoidValue{}, nil
	}
	return i.evaluate(n.Body, e)
}

func (i *Interpreter) evaluateCall(n *ast.CallExpr, e *Environment) (runtime.Value, error) {
	if err := i.checkContext(); err != nil {
		return nil, err
	}
	callee, ok := e.Lookup(n.Func)
	if !ok {
		return nil, internalErrorf("undefined function %s", n.Func)
	}
	args := make([]runtime.Value, len(n.Args))
	for idx, arg := range n.Args {
		v, err := i.evaluate(arg, e)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		if len(args) != fn.Arity {
			return nil, internalErrorf("%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Impl(&runtime.NativeCallContext{Context: i.ctx, Call: n}, args)
	case *runtime.FunctionValue:
		decl := fn.Declaration
		if len(args) != len(decl.Params) {
			return nil, internalErrorf("%s expects %d arguments, got %d", decl.Name, len(decl.Params), len(args))
		}
		frame := fn.Closure.Snapshot()
		frame.BeginScope()
		for idx, param := range decl.Params {
			frame.Extend(param.Name, args[idx])
		}
		result, err := i.evaluate(decl.Body, frame)
		if err != nil {
			return nil, err
		}
		if decl.Result == nil {
			return runtime.VoidValue{}, nil
		}
		return result, nil
	}
	return nil, internalErrorf("%s is not a function", n.Func)
}

func (i *Interpreter) evaluateVar(v ast.Var, e *Environment) (runtime.Value, error) {
	switch n := v.(type) {
	case *ast.SimpleVar:
		value, ok := e.Lookup(n.Name)
		if !ok {
			return nil, internalErrorf("undefined variable %s", n.Name)
		}
		return value, nil
	case *ast.FieldVar:
		rec, err := i.recordOf(n, e)
		if err != nil {
			return nil, err
		}
		value, err := rec.Get(n.Field)
		if err != nil {
			return nil, runtimeErrorf(n, err, "%s", err.Error())
		}
		return value, nil
	case *ast.SubscriptVar:
		arr, index, err := i.cellOf(n, e)
		if err != nil {
			return nil, err
		}
		value, err := arr.Get(index)
		if err != nil {
			return nil, runtimeErrorf(n, err, "%s", err.Error())
		}
		return value, nil
	}
	return nil, internalErrorf("unsupported variable %T", v)
}

func (i *Interpreter) recordOf(n *ast.FieldVar, e *Environment) (*runtime.RecordValue, error) {
	base, err := i.evaluateVar(n.Var, e)
	if err != nil {
		return nil, err
	}
	switch rec := base.(type) {
	case *runtime.RecordValue:
		return rec, nil
	case runtime.NilValue:
		return nil, runtimeErrorf(n, nil, "field %s of nil record", n.Field)
	}
	return nil, internalErrorf("field %s of %s", n.Field, base.Kind())
}

func (i *Interpreter) cellOf(n *ast.SubscriptVar, e *Environment) (*runtime.ArrayValue, int32, error) {
	base, err := i.evaluateVar(n.Var, e)
	if err != nil {
		return nil, 0, err
	}
	arr, ok := base.(*runtime.ArrayValue)
	if !ok {
		return nil, 0, internalErrorf("subscript of %s", base.Kind())
	}
	index, err := i.evaluateInt(n.Index, e)
	if err != nil {
		return nil, 0, err
	}
	return arr, index, nil
}

// evaluateAssign resolves the target location before evaluating the value.
func (i *Interpreter) evaluateAssign(n *ast.AssignExpr, e *Environment) (runtime.Value, error) {
	switch target := n.Target.(type) {
	case *ast.SimpleVar:
		value, err := i.evaluate(n.Value, e)
		if err != nil {
			return nil, err
		}
		if !e.Update(target.Name, value) {
			return nil, internalErrorf("assignment to undefined variable %s", target.Name)
		}
	case *ast.FieldVar:
		rec, err := i.recordOf(target, e)
		if err != nil {
			return nil, err
		}
		value, err := i.evaluate(n.Value, e)
		if err != nil {
			return nil, err
		}
		if err := rec.Set(target.Field, value); err != nil {
			return nil, runtimeErrorf(target, err, "%s", err.Error())
		}
	case *ast.SubscriptVar:
		arr, index, err := i.cellOf(target, e)
		if err != nil {
			return nil, err
		}
		value, err := i.evaluate(n.Value, e)
		if err != nil {
			return nil, err
		}
		if err := arr.Set(index, value); err != nil {
			return nil, runtimeErrorf(target, err, "%s", err.Error())
		}
	default:
		return nil, internalErrorf("unsupported assignment target %T", n.Target)
	}
	return runtime.VoidValue{}, nil
}
