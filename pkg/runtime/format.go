package runtime

import (
	"strconv"
	"strings"
)

// Format renders a value the way the REPL and `RESULT =` lines show it.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v, make(map[Value]bool))
	return b.String()
}

func format(b *strings.Builder, v Value, active map[Value]bool) {
	switch val := v.(type) {
	case nil:
		b.WriteString("<nil>")
	case IntValue:
		b.WriteString(strconv.FormatInt(int64(val.Val), 10))
	case StringValue:
		b.WriteString(val.Val)
	case NilValue:
		b.WriteString("nil")
	case VoidValue:
		b.WriteString("()")
	case *ArrayValue:
		if active[val] {
			b.WriteString("[...]")
			return
		}
		active[val] = true
		defer delete(active, val)
		b.WriteByte('[')
		for i, elem := range val.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			format(b, elem, active)
		}
		b.WriteByte(']')
	case *RecordValue:
		if active[val] {
			b.WriteString("{...}")
			return
		}
		active[val] = true
		defer delete(active, val)
		b.WriteByte('{')
		for i, name := range val.order {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name.String())
			b.WriteByte('=')
			format(b, val.fields[name], active)
		}
		b.WriteByte('}')
	case *FunctionValue:
		b.WriteString("<function ")
		b.WriteString(val.Declaration.Name.String())
		b.WriteByte('>')
	case NativeFunctionValue:
		b.WriteString("<native ")
		b.WriteString(val.Name)
		b.WriteByte('>')
	default:
		b.WriteString("<" + v.Kind().String() + ">")
	}
}

// Equal implements Tiger's = operator: ints and strings compare by value,
// arrays and records by identity, and nil equals only nil.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		return ok && av == bv
	case *RecordValue:
		bv, ok := b.(*RecordValue)
		return ok && av == bv
	case VoidValue:
		_, ok := b.(VoidValue)
		return ok
	}
	return false
}
