package compiler

import (
	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/types"
)

func (g *generator) expr(expr ast.Expr) error {
	switch n := expr.(type) {
	case *ast.IntLit:
		g.emit("%s", pushInt(n.Value))
		return nil
	case *ast.StringLit:
		g.emit("ldc %s", quote(n.Value))
		return nil
	case *ast.NilExpr:
		g.emit("aconst_null")
		return nil
	case *ast.BreakExpr:
		return g.breakLoop(n)
	case *ast.SeqExpr:
		return g.seq(n)
	case *ast.VarExpr:
		return g.loadVar(n.Var)
	case *ast.AssignExpr:
		return g.assign(n)
	case *ast.CallExpr:
		return g.call(n)
	case *ast.OpExpr:
		switch {
		case n.Op.IsArithmetic():
			return g.arithmetic(n)
		case n.Op.IsLogical():
			return g.logical(n)
		}
		return g.compare(n)
	case *ast.IfExpr:
		return g.ifThen(n)
	case *ast.IfElseExpr:
		return g.ifElse(n)
	case *ast.WhileExpr:
		return g.while(n)
	case *ast.ForExpr:
		return g.forLoop(n)
	case *ast.LetExpr:
		return g.let(n)
	case *ast.ArrayExpr:
		return g.array(n)
	case *ast.RecordExpr:
		return g.record(n)
	case nil:
		return nil
	}
	return internalErrorf(expr, "unsupported expression %T", expr)
}

// seq discards the values of all but the last expression.
func (g *generator) seq(n *ast.SeqExpr) error {
	for i, sub := range n.Exprs {
		if err := g.expr(sub); err != nil {
			return err
		}
		if i == len(n.Exprs)-1 {
			break
		}
		t, err := g.typeOf(sub)
		if err != nil {
			return err
		}
		if !isVoid(t) {
			g.emit("pop")
		}
	}
	return nil
}

func (g *generator) call(n *ast.CallExpr) error {
	found, ok := g.venv.Lookup(n.Func)
	if !ok {
		return internalErrorf(n, "undefined function %s", n.Func)
	}
	fn, ok := found.(*funcEntry)
	if !ok {
		return internalErrorf(n, "%s is not a function", n.Func)
	}
	for _, arg := range n.Args {
		if err := g.expr(arg); err != nil {
			return err
		}
	}
	for _, key := range fn.captures {
		if err := g.loadCapture(n, key); err != nil {
			return err
		}
	}
	g.emit("invokestatic %s/%s", fn.class, fn.method)
	return nil
}

func (g *generator) arithmetic(n *ast.OpExpr) error {
	if err := g.expr(n.Left); err != nil {
		return err
	}
	if err := g.expr(n.Right); err != nil {
		return err
	}
	switch n.Op {
	case ast.OpPlus:
		g.emit("iadd")
	case ast.OpMinus:
		g.emit("isub")
	case ast.OpTimes:
		g.emit("imul")
	case ast.OpDiv:
		g.emit("idiv")
	default:
		return internalErrorf(n, "operator %s is not arithmetic", n.Op)
	}
	return nil
}

// logical leaves 0 or 1 when the left operand decides, otherwise the value
// of the right operand.
func (g *generator) logical(n *ast.OpExpr) error {
	right := g.label("right")
	join := g.label("join")
	if err := g.expr(n.Left); err != nil {
		return err
	}
	if n.Op == ast.OpAnd {
		g.emit("ifne %s", right)
		g.emit("iconst_0")
	} else {
		g.emit("ifeq %s", right)
		g.emit("iconst_1")
	}
	g.emit("goto %s", join)
	g.place(right)
	if err := g.expr(n.Right); err != nil {
		return err
	}
	g.place(join)
	return nil
}

var (
	intBranches = map[ast.Operator]string{
		ast.OpEq: "if_icmpeq", ast.OpNe: "if_icmpne",
		ast.OpLt: "if_icmplt", ast.OpLe: "if_icmple",
		ast.OpGt: "if_icmpgt", ast.OpGe: "if_icmpge",
	}
	// Strings compare through compareTo against zero.
	stringBranches = map[ast.Operator]string{
		ast.OpEq: "ifeq", ast.OpNe: "ifne",
		ast.OpLt: "iflt", ast.OpLe: "ifle",
		ast.OpGt: "ifgt", ast.OpGe: "ifge",
	}
	referenceBranches = map[ast.Operator]string{
		ast.OpEq: "if_acmpeq", ast.OpNe: "if_acmpne",
	}
)

func (g *generator) operandType(n *ast.OpExpr) (types.Type, error) {
	t, err := g.typeOf(n.Left)
	if err != nil {
		return nil, err
	}
	if t.Actual() == types.Nil {
		return g.typeOf(n.Right)
	}
	return t, nil
}

func (g *generator) compare(n *ast.OpExpr) error {
	operand, err := g.operandType(n)
	if err != nil {
		return err
	}
	isTrue := g.label("true")
	end := g.label("end")
	if err := g.expr(n.Left); err != nil {
		return err
	}
	if err := g.expr(n.Right); err != nil {
		return err
	}

	var branch string
	var ok bool
	switch {
	case isInt(operand):
		branch, ok = intBranches[n.Op]
	case operand.Actual() == types.String:
		g.emit("invokevirtual java/lang/String/compareTo(Ljava/lang/String;)I")
		branch, ok = stringBranches[n.Op]
	default:
		branch, ok = referenceBranches[n.Op]
	}
	if !ok {
		return internalErrorf(n, "operator %s on %s", n.Op, operand)
	}
	g.emit("%s %s", branch, isTrue)
	g.emit("iconst_0")
	g.emit("goto %s", end)
	g.place(isTrue)
	g.emit("iconst_1")
	g.place(end)
	return nil
}

func (g *generator) let(n *ast.LetExpr) error {
	g.venv.BeginScope()
	defer g.venv.EndScope()
	saved := g.frame.FrameEnd()

	for _, decl := range n.Decls {
		switch d := decl.(type) {
		case *ast.VarDecl:
			if err := g.varDecl(d); err != nil {
				return err
			}
		case *ast.FunctionGroup:
			if err := g.functionGroup(d); err != nil {
				return err
			}
		case *ast.TypeGroup:
			// Types were resolved by the checker.
		default:
			return internalErrorf(decl, "unsupported declaration %T", decl)
		}
	}
	if err := g.expr(n.Body); err != nil {
		return err
	}
	g.frame.popTo(saved)
	return nil
}

func (g *generator) varDecl(d *ast.VarDecl) error {
	t, err := g.typeOf(d)
	if err != nil {
		return err
	}
	if g.run.info.boxed[d] {
		g.newCell(t)
		g.emit("dup")
		g.emit("iconst_0")
		if err := g.expr(d.Init); err != nil {
			return err
		}
		g.emit("%sastore", typePrefix(t))
		slot := g.frame.AllocLocal()
		g.emit("astore %d", slot)
		g.slots[d] = slot
	} else {
		if err := g.expr(d.Init); err != nil {
			return err
		}
		slot := g.frame.AllocLocal()
		g.emit("%sstore %d", typePrefix(t), slot)
		g.slots[d] = slot
	}
	g.venv.Extend(d.Name, varEntry{key: d})
	return nil
}

// array evaluates the initializer once and stores it into every cell.
func (g *generator) array(n *ast.ArrayExpr) error {
	t, err := g.typeOf(n)
	if err != nil {
		return err
	}
	arrayType, ok := t.Actual().(*types.Array)
	if !ok {
		return internalErrorf(n, "array expression of type %s", t)
	}
	elem := arrayType.Elem
	prefix := typePrefix(elem)
	saved := g.frame.FrameEnd()

	if err := g.expr(n.Size); err != nil {
		return err
	}
	g.emit("dup")
	if isInt(elem) {
		g.emit("newarray int")
	} else {
		g.emit("anewarray %s", className(elem))
	}
	arr := g.frame.AllocLocal()
	g.emitNote(storeInstr("a", arr), "store array reference")

	init := g.frame.AllocLocal()
	if err := g.expr(n.Init); err != nil {
		return err
	}
	g.emitNote(storeInstr(prefix, init), "initial value for array cells")

	idx := g.frame.AllocLocal()
	g.emit("iconst_0")
	g.emitNote(storeInstr("i", idx), "index variable, for initialization")

	body := g.label("L")
	test := g.label("Test")
	g.emit("goto %s", test)
	g.place(body)
	g.emit("aload %d", arr)
	g.emit("iload %d", idx)
	g.emit("%sload %d", prefix, init)
	g.emit("%sastore", prefix)
	g.emitNote("iinc "+itoa(idx)+" 1", "end of init loop body")
	g.place(test)
	g.emitNote("dup", "init loop entry")
	g.emit("iload %d", idx)
	g.emit("if_icmpgt %s", body)
	g.emit("pop")

	g.frame.popTo(saved)
	g.emitNote("aload "+itoa(arr), "reference to created array")
	return nil
}

func (g *generator) record(n *ast.RecordExpr) error {
	g.emit("new %s", recordClass)
	g.emit("dup")
	g.emit("invokespecial %s/<init>()V", recordClass)
	for _, field := range n.Fields {
		g.emit("dup")
		g.emit("ldc %s", quote(field.Name.String()))
		if err := g.expr(field.Value); err != nil {
			return err
		}
		t, err := g.typeOf(field.Value)
		if err != nil {
			return err
		}
		if isInt(t) {
			g.emit("invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;")
		}
		g.emit("invokevirtual %s/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", recordClass)
		g.emit("pop")
	}
	return nil
}
