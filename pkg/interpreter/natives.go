package interpreter

import (
	"errors"
	"io"
	"strconv"

	"github.com/hopsage/TigerC/pkg/runtime"
)

func intArg(name string, args []runtime.Value, idx int) (int32, error) {
	if idx >= len(args) {
		return 0, internalErrorf("%s: missing argument %d", name, idx)
	}
	v, ok := args[idx].(runtime.IntValue)
	if !ok {
		return 0, internalErrorf("%s: argument %d is %s, want int", name, idx, args[idx].Kind())
	}
	return v.Val, nil
}

func stringArg(name string, args []runtime.Value, idx int) (string, error) {
	if idx >= len(args) {
		return "", internalErrorf("%s: missing argument %d", name, idx)
	}
	v, ok := args[idx].(runtime.StringValue)
	if !ok {
		return "", internalErrorf("%s: argument %d is %s, want string", name, idx, args[idx].Kind())
	}
	return v.Val, nil
}

// natives maps every library function name to its implementation.
func (i *Interpreter) natives() map[string]runtime.NativeFunctionValue {
	table := []runtime.NativeFunctionValue{
		{Name: "print", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("print", args, 0)
			if err != nil {
				return nil, err
			}
			if _, err := i.out.WriteString(s); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		}},
		{Name: "printi", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, err := intArg("printi", args, 0)
			if err != nil {
				return nil, err
			}
			if _, err := i.out.WriteString(strconv.FormatInt(int64(n), 10)); err != nil {
				return nil, err
			}
			return runtime.VoidValue{}, nil
		}},
		{Name: "flush", Arity: 0, Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.VoidValue{}, i.out.Flush()
		}},
		{Name: "getchar", Arity: 0, Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			if err := i.out.Flush(); err != nil {
				return nil, err
			}
			if i.in == nil {
				return runtime.StringValue{}, nil
			}
			c, err := i.in.ReadByte()
			if errors.Is(err, io.EOF) {
				return runtime.StringValue{}, nil
			}
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: string([]byte{c})}, nil
		}},
		{Name: "ord", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("ord", args, 0)
			if err != nil {
				return nil, err
			}
			if s == "" {
				return runtime.IntValue{Val: 0}, nil
			}
			return runtime.IntValue{Val: int32(s[0])}, nil
		}},
		{Name: "chr", Arity: 1, Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, err := intArg("chr", args, 0)
			if err != nil {
				return nil, err
			}
			if n < 0 || n > 255 {
				return nil, runtimeErrorf(ctx.Call, nil, "chr: character code %d out of range", n)
			}
			return runtime.StringValue{Val: string([]byte{byte(n)})}, nil
		}},
		{Name: "size", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("size", args, 0)
			if err != nil {
				return nil, err
			}
			return runtime.IntValue{Val: int32(len(s))}, nil
		}},
		{Name: "substring", Arity: 3, Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := stringArg("substring", args, 0)
			if err != nil {
				return nil, err
			}
			begin, err := intArg("substring", args, 1)
			if err != nil {
				return nil, err
			}
			end, err := intArg("substring", args, 2)
			if err != nil {
				return nil, err
			}
			if begin < 0 || end < begin || int(end) > len(s) {
				return nil, runtimeErrorf(ctx.Call, nil, "substring: range [%d, %d) out of bounds for length %d", begin, end, len(s))
			}
			return runtime.StringValue{Val: s[begin:end]}, nil
		}},
		{Name: "concat", Arity: 2, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			a, err := stringArg("concat", args, 0)
			if err != nil {
				return nil, err
			}
			b, err := stringArg("concat", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: a + b}, nil
		}},
		{Name: "not", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, err := intArg("not", args, 0)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return runtime.IntValue{Val: 1}, nil
			}
			return runtime.IntValue{Val: 0}, nil
		}},
		{Name: "exit", Arity: 1, Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			code, err := intArg("exit", args, 0)
			if err != nil {
				return nil, err
			}
			if err := i.out.Flush(); err != nil {
				return nil, err
			}
			return nil, exitSignal{code: int(code)}
		}},
	}
	out := make(map[string]runtime.NativeFunctionValue, len(table))
	for _, fn := range table {
		out[fn.Name] = fn
	}
	return out
}
