package compiler

import (
	"strconv"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/types"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func storeInstr(prefix string, slot int) string {
	return prefix + "store " + itoa(slot)
}

// variable resolves a simple name to its declaring node and its slot in the
// current activation.
func (g *generator) variable(v *ast.SimpleVar) (ast.Node, int, error) {
	found, ok := g.venv.Lookup(v.Name)
	if !ok {
		return nil, 0, internalErrorf(v, "undefined variable %s", v.Name)
	}
	ve, ok := found.(varEntry)
	if !ok {
		return nil, 0, internalErrorf(v, "%s is not a variable", v.Name)
	}
	slot, ok := g.slots[ve.key]
	if !ok {
		return nil, 0, internalErrorf(v, "variable %s is not available in this activation", v.Name)
	}
	return ve.key, slot, nil
}

func (g *generator) loadVar(v ast.Var) error {
	switch n := v.(type) {
	case *ast.SimpleVar:
		key, slot, err := g.variable(n)
		if err != nil {
			return err
		}
		t := g.run.info.types[key]
		if g.run.info.boxed[key] {
			g.emit("aload %d", slot)
			g.emit("iconst_0")
			if isInt(t) {
				g.emit("iaload")
			} else {
				g.emit("aaload")
				g.emit("checkcast %s", className(t))
			}
			return nil
		}
		g.emit("%sload %d", typePrefix(t), slot)
		return nil
	case *ast.FieldVar:
		if err := g.loadVar(n.Var); err != nil {
			return err
		}
		t, err := g.typeOf(n)
		if err != nil {
			return err
		}
		g.emit("ldc %s", quote(n.Field.String()))
		g.emit("invokevirtual %s/get(Ljava/lang/Object;)Ljava/lang/Object;", recordClass)
		g.unbox(t)
		return nil
	case *ast.SubscriptVar:
		if err := g.loadVar(n.Var); err != nil {
			return err
		}
		if err := g.expr(n.Index); err != nil {
			return err
		}
		t, err := g.typeOf(n)
		if err != nil {
			return err
		}
		g.emit("%saload", typePrefix(t))
		return nil
	}
	return internalErrorf(v, "unsupported variable %T", v)
}

// unbox converts a map value back to t.
func (g *generator) unbox(t types.Type) {
	if isInt(t) {
		g.emit("checkcast java/lang/Integer")
		g.emit("invokevirtual java/lang/Integer/intValue()I")
		return
	}
	g.emit("checkcast %s", className(t))
}

// loadCapture pushes the value, or the cell, of key for a call that needs
// it as a trailing argument.
func (g *generator) loadCapture(call *ast.CallExpr, key ast.Node) error {
	slot, ok := g.slots[key]
	if !ok {
		return internalErrorf(call, "captured variable %s is not available in this activation", g.run.info.names[key])
	}
	if g.run.info.boxed[key] {
		g.emit("aload %d", slot)
		return nil
	}
	g.emit("%sload %d", typePrefix(g.run.info.types[key]), slot)
	return nil
}

// assign computes the location before the value for cells, fields and
// subscripts; a plain local is stored after the value.
func (g *generator) assign(n *ast.AssignExpr) error {
	value, err := g.typeOf(n.Value)
	if err != nil {
		return err
	}
	switch target := n.Target.(type) {
	case *ast.SimpleVar:
		key, slot, err := g.variable(target)
		if err != nil {
			return err
		}
		t := g.run.info.types[key]
		if g.run.info.boxed[key] {
			g.emit("aload %d", slot)
			g.emit("iconst_0")
			if err := g.expr(n.Value); err != nil {
				return err
			}
			g.emit("%sastore", typePrefix(t))
			return nil
		}
		if err := g.expr(n.Value); err != nil {
			return err
		}
		g.emit("%sstore %d", typePrefix(t), slot)
		return nil
	case *ast.FieldVar:
		if err := g.loadVar(target.Var); err != nil {
			return err
		}
		g.emit("ldc %s", quote(target.Field.String()))
		if err := g.expr(n.Value); err != nil {
			return err
		}
		if isInt(value) {
			g.emit("invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;")
		}
		g.emit("invokevirtual %s/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", recordClass)
		g.emit("pop")
		return nil
	case *ast.SubscriptVar:
		if err := g.loadVar(target.Var); err != nil {
			return err
		}
		if err := g.expr(target.Index); err != nil {
			return err
		}
		if err := g.expr(n.Value); err != nil {
			return err
		}
		t, err := g.typeOf(target)
		if err != nil {
			return err
		}
		g.emit("%sastore", typePrefix(t))
		return nil
	}
	return internalErrorf(n, "unsupported assignment target %T", n.Target)
}
