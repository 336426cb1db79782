package compiler

import (
	"fmt"
	"strings"

	"github.com/hopsage/TigerC/pkg/types"
)

const (
	recordClass     = "java/util/HashMap"
	recordDesc      = "Ljava/util/HashMap;"
	stringClass     = "java/lang/String"
	stringDesc      = "Ljava/lang/String;"
	objectDesc      = "Ljava/lang/Object;"
	objectArrayDesc = "[Ljava/lang/Object;"
)

func isInt(t types.Type) bool {
	return t != nil && t.Actual() == types.Int
}

func isVoid(t types.Type) bool {
	return t == nil || t.Actual() == types.Void
}

// maxDimensions is the JVM's limit on array dimensions; it also stops
// descriptor on a type like `type a = array of a`.
const maxDimensions = 255

// descriptor is the JVM field descriptor for t.
func descriptor(t types.Type) string {
	return descriptorDepth(t, 0)
}

func descriptorDepth(t types.Type, depth int) string {
	switch actual := t.Actual().(type) {
	case *types.Array:
		if depth == maxDimensions {
			return objectDesc
		}
		return "[" + descriptorDepth(actual.Elem, depth+1)
	case *types.Record:
		return recordDesc
	}
	switch t.Actual() {
	case types.Int:
		return "I"
	case types.String:
		return stringDesc
	case types.Void:
		return "V"
	}
	return objectDesc
}

// className is the operand of anewarray and checkcast for reference type t.
func className(t types.Type) string {
	switch t.Actual().(type) {
	case *types.Array:
		return descriptor(t)
	case *types.Record:
		return recordClass
	}
	if t.Actual() == types.String {
		return stringClass
	}
	return "java/lang/Object"
}

// typePrefix selects the i or a variant of load, store and array opcodes.
func typePrefix(t types.Type) string {
	if isInt(t) {
		return "i"
	}
	return "a"
}

// pushInt picks the shortest instruction that loads v.
func pushInt(v int32) string {
	switch {
	case v == -1:
		return "iconst_m1"
	case v >= 0 && v <= 5:
		return fmt.Sprintf("iconst_%d", v)
	case v >= -128 && v <= 127:
		return fmt.Sprintf("bipush %d", v)
	case v >= -32768 && v <= 32767:
		return fmt.Sprintf("sipush %d", v)
	}
	return fmt.Sprintf("ldc %d", v)
}

// quote renders s as a Jasmin string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, `\u%04x`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
