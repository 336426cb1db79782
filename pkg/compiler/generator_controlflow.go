package compiler

import "github.com/hopsage/TigerC/pkg/ast"

func (g *generator) ifThen(n *ast.IfExpr) error {
	skip := g.label("endif")
	if err := g.expr(n.Test); err != nil {
		return err
	}
	g.emit("ifeq %s", skip)
	if err := g.expr(n.Then); err != nil {
		return err
	}
	g.place(skip)
	return nil
}

func (g *generator) ifElse(n *ast.IfElseExpr) error {
	falseBranch := g.label("false")
	join := g.label("endif")
	if err := g.expr(n.Test); err != nil {
		return err
	}
	g.emit("ifeq %s", falseBranch)
	if err := g.expr(n.Then); err != nil {
		return err
	}
	g.emit("goto %s", join)
	g.place(falseBranch)
	if err := g.expr(n.Else); err != nil {
		return err
	}
	g.place(join)
	return nil
}

// while places the test after the body; break targets ENDWHILE, which the
// test itself never sees.
func (g *generator) while(n *ast.WhileExpr) error {
	test := g.label("test")
	loop := g.label("loop")
	end := g.label("endwhile")

	g.emit("goto %s", test)
	g.place(loop)
	leave := g.enterLoop(end)
	err := g.expr(n.Body)
	leave()
	if err != nil {
		return err
	}
	g.place(test)
	if err := g.expr(n.Test); err != nil {
		return err
	}
	g.emit("ifne %s", loop)
	g.place(end)
	return nil
}

// forLoop keeps the upper bound on the operand stack for the whole loop.
// The exit test runs before the increment, so a bound of maxint ends the
// loop instead of wrapping. Both the normal exit and break reach ENDFOR,
// which pops the bound.
func (g *generator) forLoop(n *ast.ForExpr) error {
	idx := g.frame.AllocLocal()
	defer g.frame.PopLocal()

	if err := g.expr(n.Lo); err != nil {
		return err
	}
	g.emit("istore %d", idx)
	if err := g.expr(n.Hi); err != nil {
		return err
	}

	g.venv.BeginScope()
	defer g.venv.EndScope()
	g.slots[n] = idx
	g.venv.Extend(n.Var, varEntry{key: n})

	test := g.label("test")
	body := g.label("body")
	end := g.label("endfor")
	g.emit("dup")
	g.emit("iload %d", idx)
	g.emit("if_icmplt %s", end)
	g.place(body)
	leave := g.enterLoop(end)
	err := g.expr(n.Body)
	leave()
	if err != nil {
		return err
	}
	g.place(test)
	g.emit("dup")
	g.emit("iload %d", idx)
	g.emit("if_icmpeq %s", end)
	g.emit("iinc %d 1", idx)
	g.emit("goto %s", body)
	g.place(end)
	g.emit("pop")
	return nil
}
