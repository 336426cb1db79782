package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hopsage/TigerC/pkg/symbol"
)

const printIndent = "  "

// Print writes an indented outline of node, one line per node.
func Print(w io.Writer, node Node) error {
	var b strings.Builder
	printNode(&b, node, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// Sprint returns the outline Print would write.
func Sprint(node Node) string {
	var b strings.Builder
	printNode(&b, node, 0)
	return b.String()
}

func printNode(b *strings.Builder, node Node, depth int) {
	if node == nil {
		return
	}
	b.WriteString(strings.Repeat(printIndent, depth))
	b.WriteString(string(node.NodeType()))
	if detail := describe(node); detail != "" {
		b.WriteByte(' ')
		b.WriteString(detail)
	}
	b.WriteByte('\n')
	for _, child := range Children(node) {
		printNode(b, child, depth+1)
	}
}

func describe(node Node) string {
	switch n := node.(type) {
	case *VarDecl:
		if n.TypeName != nil {
			return fmt.Sprintf("%s : %s", n.Name, n.TypeName)
		}
		return n.Name.String()
	case *FunctionDecl:
		if n.Result != nil {
			return fmt.Sprintf("%s : %s", n.Name, n.Result)
		}
		return n.Name.String()
	case *Field:
		return fmt.Sprintf("%s : %s", n.Name, n.TypeName)
	case *TypeDecl:
		return n.Name.String()
	case *ArrayType:
		return n.Elem.String()
	case *NameType:
		return n.Name.String()
	case *ArrayExpr:
		return n.Type.String()
	case *RecordExpr:
		return n.Type.String()
	case *FieldInit:
		return n.Name.String()
	case *CallExpr:
		return n.Func.String()
	case *ForExpr:
		return n.Var.String()
	case *IntLit:
		return strconv.FormatInt(int64(n.Value), 10)
	case *StringLit:
		return strconv.Quote(n.Value)
	case *OpExpr:
		return n.Op.String()
	case *SimpleVar:
		return nameOf(n.Name)
	case *FieldVar:
		return nameOf(n.Field)
	default:
		return ""
	}
}

func nameOf(sym *symbol.Symbol) string {
	if sym == nil {
		return "?"
	}
	return sym.String()
}
