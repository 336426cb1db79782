package compiler

import (
	"fmt"
	"strings"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/env"
	"github.com/hopsage/TigerC/pkg/typechecker"
	"github.com/hopsage/TigerC/pkg/types"
)

type entry interface {
	isEntry()
}

// varEntry names the declaring node; the slot is per activation.
type varEntry struct {
	key ast.Node
}

type funcEntry struct {
	class string
	// method is the name plus descriptor passed to invokestatic.
	method   string
	result   types.Type
	captures []ast.Node
}

func (varEntry) isEntry()   {}
func (*funcEntry) isEntry() {}

// compileRun holds the state shared by every generator of one Compile call.
type compileRun struct {
	opts     Options
	checker  *typechecker.Checker
	info     *captureInfo
	labels   labeler
	procs    []string
	warnings []string
}

func newCompileRun(opts Options, checker *typechecker.Checker, info *captureInfo) *compileRun {
	run := &compileRun{opts: opts, checker: checker, info: info}
	for _, key := range info.boxedInOrder() {
		run.warnings = append(run.warnings, fmt.Sprintf("compiler: variable %s is assigned by a nested function; it is kept in a heap cell", info.names[key]))
	}
	return run
}

// generator emits the body of one method: main or a single function.
type generator struct {
	run    *compileRun
	serial int
	fn     *ast.FunctionDecl
	venv   *env.Environment[entry]
	frame  *Frame
	slots  map[ast.Node]int
	loops  []loopExit
	stack  stackDepth
	code   strings.Builder
}

// loopExit is where break jumps for one enclosing loop, and the stack height
// that label expects.
type loopExit struct {
	label string
	depth int
}

func (r *compileRun) newGenerator(fn *ast.FunctionDecl, venv *env.Environment[entry], frame *Frame) *generator {
	return &generator{
		run:    r,
		serial: r.labels.nextGenerator(),
		fn:     fn,
		venv:   venv,
		frame:  frame,
		slots:  make(map[ast.Node]int),
		stack:  newStackDepth(),
	}
}

func (g *generator) emit(format string, args ...any) {
	instr := fmt.Sprintf(format, args...)
	g.code.WriteString(instr)
	g.code.WriteByte('\n')
	g.stack.apply(instr)
}

func (g *generator) emitNote(instr, comment string) {
	g.stack.apply(instr)
	g.code.WriteString(instr)
	g.code.WriteString(" ; ")
	g.code.WriteString(comment)
	g.code.WriteByte('\n')
}

func (g *generator) label(text string) string {
	return g.run.labels.label(g.serial, text)
}

func (g *generator) place(label string) {
	g.code.WriteString(label)
	g.code.WriteString(":\n")
	g.stack.place(label)
}

// enterLoop makes exit the target of break until the returned func runs.
func (g *generator) enterLoop(exit string) func() {
	g.loops = append(g.loops, loopExit{label: exit, depth: g.stack.depth})
	return func() { g.loops = g.loops[:len(g.loops)-1] }
}

// breakLoop drops what the enclosing expression has pushed so far and jumps
// out of the innermost loop. Code after it is unreachable, so the height it
// was generated at is restored.
func (g *generator) breakLoop(n *ast.BreakExpr) error {
	if len(g.loops) == 0 {
		return internalErrorf(n, "break outside a loop")
	}
	loop := g.loops[len(g.loops)-1]
	resume := g.stack.depth
	for g.stack.depth > loop.depth {
		g.emit("pop")
	}
	g.emit("goto %s", loop.label)
	g.stack.depth = resume
	return nil
}

// stackLimit is the `.limit stack` value for this method.
func (g *generator) stackLimit(node ast.Node) (int, error) {
	if g.stack.err != nil {
		return 0, internalErrorf(node, "%v", g.stack.err)
	}
	return g.stack.limit(g.run.opts.MaxStack), nil
}

func (g *generator) typeOf(node ast.Node) (types.Type, error) {
	t := g.run.checker.TypeOf(node)
	if t == nil {
		return nil, internalErrorf(node, "no type recorded for %s", node.NodeType())
	}
	return t, nil
}

// program renders the whole class.
func (r *compileRun) program(expr ast.Expr) (string, error) {
	root := env.New[entry]()
	lib := r.opts.Library
	for _, fn := range lib.Functions() {
		root.Extend(fn.Name, &funcEntry{class: lib.Class(), method: fn.Descriptor(), result: fn.Result})
	}
	// Programs may shadow library names.
	root.BeginScope()

	main := r.newGenerator(nil, root, NewFrame(1))
	if err := main.expr(expr); err != nil {
		return "", err
	}
	result, err := main.typeOf(expr)
	if err != nil {
		return "", err
	}
	if !isVoid(result) {
		main.emit("getstatic java/lang/System/out Ljava/io/PrintStream;")
		main.emit("swap")
		main.printResult(result)
	}
	limit, err := main.stackLimit(expr)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	r.prelude(&out)
	out.WriteString(".method public static main([Ljava/lang/String;)V\n")
	fmt.Fprintf(&out, ".limit locals %d\n", main.frame.MaxLocals())
	fmt.Fprintf(&out, ".limit stack %d\n", limit)
	out.WriteString(main.code.String())
	out.WriteString("return\n")
	out.WriteString(".end method ;     -- (main)\n")
	for _, proc := range r.procs {
		out.WriteString(proc)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

func (r *compileRun) prelude(out *strings.Builder) {
	source := r.opts.Source
	if source == "" {
		source = "standard input"
	}
	comment := "generated from " + source
	if r.opts.Revision != "" {
		comment += " at revision " + r.opts.Revision
	}
	class := r.opts.ClassName
	fmt.Fprintf(out, "; %s\n", comment)
	fmt.Fprintf(out, ".class %s\n", class)
	out.WriteString(".super java/lang/Object\n")
	out.WriteString(".method public <init>()V\n")
	out.WriteString("aload_0\n")
	out.WriteString("invokespecial java/lang/Object/<init>()V\n")
	out.WriteString("return\n")
	out.WriteString(".end method\n")
	fmt.Fprintf(out, "; end initial setup for class %s\n", class)
}

// printResult expects [System.out, value] on the stack.
func (g *generator) printResult(t types.Type) {
	if arr, ok := t.Actual().(*types.Array); ok {
		if isInt(arr.Elem) {
			g.emit("invokestatic java/util/Arrays/toString([I)Ljava/lang/String;")
		} else {
			g.emit("invokestatic java/util/Arrays/toString([Ljava/lang/Object;)Ljava/lang/String;")
		}
		g.emit("invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V")
		return
	}
	arg := objectDesc
	switch t.Actual() {
	case types.Int:
		arg = "I"
	case types.String:
		arg = stringDesc
	}
	g.emit("invokevirtual java/io/PrintStream/println(%s)V", arg)
}

// functionGroup registers every signature before generating any body, so
// members can call each other.
func (g *generator) functionGroup(group *ast.FunctionGroup) error {
	entries := make([]*funcEntry, len(group.Functions))
	for i, fn := range group.Functions {
		result, err := g.typeOf(fn)
		if err != nil {
			return err
		}
		var params strings.Builder
		for _, param := range fn.Params {
			t, err := g.typeOf(param)
			if err != nil {
				return err
			}
			params.WriteString(descriptor(t))
		}
		captures := g.run.info.captures[fn]
		for _, key := range captures {
			params.WriteString(g.run.info.paramDescriptor(key))
		}
		name := g.run.labels.method(g.serial, fn.Name.String())
		entries[i] = &funcEntry{
			class:    g.run.opts.ClassName,
			method:   name + "(" + params.String() + ")" + descriptor(result),
			result:   result,
			captures: captures,
		}
		g.venv.Extend(fn.Name, entries[i])
	}
	for i, fn := range group.Functions {
		body := g.run.newGenerator(fn, g.venv.Snapshot(), NewFrame(0))
		body.venv.BeginScope()
		proc, err := body.function(fn, entries[i])
		if err != nil {
			return err
		}
		g.run.procs = append(g.run.procs, proc)
	}
	return nil
}

func (g *generator) function(fn *ast.FunctionDecl, e *funcEntry) (string, error) {
	info := g.run.info
	for _, param := range fn.Params {
		g.slots[param] = g.frame.AllocLocal()
		g.venv.Extend(param.Name, varEntry{key: param})
	}
	for _, key := range e.captures {
		g.slots[key] = g.frame.AllocLocal()
	}
	// Parameters assigned by nested functions move into cells.
	for _, param := range fn.Params {
		if !info.boxed[param] {
			continue
		}
		t := info.types[param]
		incoming := g.slots[param]
		g.newCell(t)
		g.emit("dup")
		g.emit("iconst_0")
		g.emit("%sload %d", typePrefix(t), incoming)
		g.emit("%sastore", typePrefix(t))
		cell := g.frame.AllocLocal()
		g.emit("astore %d", cell)
		g.slots[param] = cell
	}

	if err := g.expr(fn.Body); err != nil {
		return "", err
	}
	body, err := g.typeOf(fn.Body)
	if err != nil {
		return "", err
	}
	var ret string
	switch {
	case isVoid(e.result):
		if !isVoid(body) {
			g.emit("pop")
		}
		ret = "return"
	case isInt(e.result):
		ret = "ireturn"
	default:
		ret = "areturn"
	}

	limit, err := g.stackLimit(fn)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(";\n")
	fmt.Fprintf(&out, ".method public static %s\n", e.method)
	fmt.Fprintf(&out, ".limit locals %d\n", g.frame.MaxLocals())
	fmt.Fprintf(&out, ".limit stack %d\n", limit)
	out.WriteString(g.code.String())
	out.WriteString(ret)
	out.WriteByte('\n')
	fmt.Fprintf(&out, ".end method ;     < %s >", e.method)
	return out.String(), nil
}

// newCell pushes a fresh one-element array able to hold a value of type t.
func (g *generator) newCell(t types.Type) {
	g.emit("iconst_1")
	if isInt(t) {
		g.emit("newarray int")
		return
	}
	g.emit("anewarray java/lang/Object")
}
