package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hopsage/TigerC/pkg/parser"
)

func compile(t *testing.T, src string) *Result {
	t.Helper()
	expr, err := parser.Parse("prog.tig", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	result, err := New(Options{ClassName: "Prog", Source: "prog.tig"}).Compile(expr)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return result
}

func expectLines(t *testing.T, text string, want ...string) {
	t.Helper()
	joined := strings.Join(want, "\n") + "\n"
	if !strings.Contains(text, joined) {
		t.Fatalf("output does not contain\n%s\n--- output ---\n%s", joined, text)
	}
}

func TestCompileWholeClass(t *testing.T) {
	result := compile(t, "1 + 2")
	want := `; generated from prog.tig
.class Prog
.super java/lang/Object
.method public <init>()V
aload_0
invokespecial java/lang/Object/<init>()V
return
.end method
; end initial setup for class Prog
.method public static main([Ljava/lang/String;)V
.limit locals 1
.limit stack 10
iconst_1
iconst_2
iadd
getstatic java/lang/System/out Ljava/io/PrintStream;
swap
invokevirtual java/io/PrintStream/println(I)V
return
.end method ;     -- (main)
`
	if got := string(result.Text); got != want {
		t.Fatalf("text mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if result.ClassName != "Prog" {
		t.Fatalf("ClassName = %q", result.ClassName)
	}
}

func TestHeaderRecordsRevision(t *testing.T) {
	expr, err := parser.Parse("", "()")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	result, err := New(Options{Revision: "abc123"}).Compile(expr)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	text := string(result.Text)
	if !strings.HasPrefix(text, "; generated from standard input at revision abc123\n.class A_out\n") {
		t.Fatalf("unexpected header:\n%s", text)
	}
	if strings.Contains(text, "println") {
		t.Fatalf("void program should not print a result:\n%s", text)
	}
}

func TestIntegerConstants(t *testing.T) {
	cases := map[int32]string{
		-1:     "iconst_m1",
		0:      "iconst_0",
		5:      "iconst_5",
		6:      "bipush 6",
		-128:   "bipush -128",
		300:    "sipush 300",
		-32768: "sipush -32768",
		40000:  "ldc 40000",
	}
	for v, want := range cases {
		if got := pushInt(v); got != want {
			t.Fatalf("pushInt(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestMutuallyRecursiveFunctions(t *testing.T) {
	result := compile(t, `
let
  function even(x: int): int = if x = 0 then 1 else odd(x - 1)
  function odd(x: int): int = if x = 0 then 0 else even(x - 1)
in even(10) end`)
	text := string(result.Text)
	expectLines(t, text,
		"bipush 10",
		"invokestatic Prog/even$0_0(I)I",
		"getstatic java/lang/System/out Ljava/io/PrintStream;")
	expectLines(t, text,
		";",
		".method public static even$0_0(I)I",
		".limit locals 1",
		".limit stack 10",
		"iload 0",
		"iconst_0",
		"if_icmpeq TRUE$1_4",
		"iconst_0",
		"goto END$1_5",
		"TRUE$1_4:",
		"iconst_1",
		"END$1_5:",
		"ifeq FALSE$1_2",
		"iconst_1",
		"goto ENDIF$1_3",
		"FALSE$1_2:",
		"iload 0",
		"iconst_1",
		"isub",
		"invokestatic Prog/odd$0_1(I)I",
		"ENDIF$1_3:",
		"ireturn",
		".end method ;     < even$0_0(I)I >")
	expectLines(t, text, ".method public static odd$0_1(I)I")
	expectLines(t, text, "invokestatic Prog/even$0_0(I)I", "ENDIF$2_7:", "ireturn")
}

func TestArrayInitializationLoop(t *testing.T) {
	result := compile(t, "let type a = array of int var arr := a[3] of 7 in arr end")
	expectLines(t, string(result.Text),
		".limit locals 4",
		".limit stack 10",
		"iconst_3",
		"dup",
		"newarray int",
		"astore 1 ; store array reference",
		"bipush 7",
		"istore 2 ; initial value for array cells",
		"iconst_0",
		"istore 3 ; index variable, for initialization",
		"goto TEST$0_1",
		"L$0_0:",
		"aload 1",
		"iload 3",
		"iload 2",
		"iastore",
		"iinc 3 1 ; end of init loop body",
		"TEST$0_1:",
		"dup ; init loop entry",
		"iload 3",
		"if_icmpgt L$0_0",
		"pop",
		"aload 1 ; reference to created array",
		"astore 1",
		"aload 1",
		"getstatic java/lang/System/out Ljava/io/PrintStream;",
		"swap",
		"invokestatic java/util/Arrays/toString([I)Ljava/lang/String;",
		"invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V")
}

func TestReferenceArrays(t *testing.T) {
	result := compile(t, `
let
  type r = {x: int}
  type rs = array of r
  type strs = array of string
  var a := rs[2] of nil
  var b := strs[2] of "s"
in a[0] := r{x = 1}; b[1] end`)
	text := string(result.Text)
	expectLines(t, text, "anewarray java/util/HashMap")
	expectLines(t, text, "anewarray java/lang/String")
	expectLines(t, text, "aconst_null", "astore 2 ; initial value for array cells")
	expectLines(t, text, `ldc "s"`, "astore 3 ; initial value for array cells")
	expectLines(t, text, "aload 2", "iconst_1", "aaload", "getstatic java/lang/System/out Ljava/io/PrintStream;", "swap", "invokevirtual java/io/PrintStream/println(Ljava/lang/String;)V")
}

func TestForLoopBreakPopsBound(t *testing.T) {
	result := compile(t, "for i := 1 to 10 do if i = 5 then break")
	expectLines(t, string(result.Text),
		"iconst_1",
		"istore 1",
		"bipush 10",
		"dup",
		"iload 1",
		"if_icmplt ENDFOR$0_2",
		"BODY$0_1:",
		"iload 1",
		"iconst_5",
		"if_icmpeq TRUE$0_4",
		"iconst_0",
		"goto END$0_5",
		"TRUE$0_4:",
		"iconst_1",
		"END$0_5:",
		"ifeq ENDIF$0_3",
		"goto ENDFOR$0_2",
		"ENDIF$0_3:",
		"TEST$0_0:",
		"dup",
		"iload 1",
		"if_icmpeq ENDFOR$0_2",
		"iinc 1 1",
		"goto BODY$0_1",
		"ENDFOR$0_2:",
		"pop",
		"return")
}

func TestForLoopStopsAtMaxInt(t *testing.T) {
	result := compile(t, "for i := 2147483646 to 2147483647 do ()")
	expectLines(t, string(result.Text),
		"ldc 2147483646",
		"istore 1",
		"ldc 2147483647",
		"dup",
		"iload 1",
		"if_icmplt ENDFOR$0_2",
		"BODY$0_1:",
		"TEST$0_0:",
		"dup",
		"iload 1",
		"if_icmpeq ENDFOR$0_2",
		"iinc 1 1",
		"goto BODY$0_1",
		"ENDFOR$0_2:",
		"pop")
}

func TestBreakDropsPendingOperands(t *testing.T) {
	text := string(compile(t, `
let
  type a = array of int
  var arr := a[3] of 0
in
  for i := 0 to 2 do arr[i] := (break; 1)
end`).Text)
	expectLines(t, text,
		"aload 1",
		"iload 2",
		"pop",
		"pop",
		"goto ENDFOR$0_4",
		"iconst_1",
		"iastore")

	text = string(compile(t, "let var x := 0 in while 1 do x := 1 + (break; 2) end").Text)
	expectLines(t, text,
		"LOOP$0_1:",
		"iconst_1",
		"pop",
		"goto ENDWHILE$0_2",
		"iconst_2",
		"iadd",
		"istore 1",
		"TEST$0_0:")
}

func TestStackLimitFollowsDeepestExpression(t *testing.T) {
	text := string(compile(t, "1+(2+(3+(4+(5+(6+(7+(8+(9+(10+(11+12))))))))))").Text)
	expectLines(t, text, ".limit locals 1", ".limit stack 12", "iconst_1", "iconst_2")

	text = string(compile(t, `
let
  function f(a: int): int = a+(a+(a+(a+(a+(a+(a+(a+(a+(a+(a+a))))))))))
in f(1) end`).Text)
	expectLines(t, text, ".method public static f$0_0(I)I", ".limit locals 1", ".limit stack 12")
	expectLines(t, text, ".limit locals 1", ".limit stack 10", "iconst_1", "invokestatic Prog/f$0_0(I)I")
}

func TestStackLimitHonoursConfiguredFloor(t *testing.T) {
	expr, err := parser.Parse("prog.tig", "1 + 2")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	result, err := New(Options{ClassName: "Prog", MaxStack: 32}).Compile(expr)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	expectLines(t, string(result.Text), ".limit stack 32")
}

func TestStackEffect(t *testing.T) {
	cases := []struct {
		instr string
		want  int
	}{
		{"iconst_1", 1},
		{`ldc "abc"`, 1},
		{"iadd", -1},
		{"iastore", -3},
		{"if_icmpge BODY$0_1", -2},
		{"goto END$0_5", 0},
		{"istore 2 ; initial value", -1},
		{"invokestatic Prog/inc$0_0([I)V", -1},
		{"invokestatic Prog/f$0_0(I[ILjava/lang/String;[[Ljava/lang/Object;)I", -3},
		{"invokevirtual java/util/HashMap/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", -2},
		{"invokespecial java/util/HashMap/<init>()V", -1},
	}
	for _, tc := range cases {
		got, err := stackEffect(tc.instr)
		if err != nil {
			t.Fatalf("stackEffect(%q) error: %v", tc.instr, err)
		}
		if got != tc.want {
			t.Fatalf("stackEffect(%q) = %d, want %d", tc.instr, got, tc.want)
		}
	}
	if _, err := stackEffect("lookupswitch"); err == nil {
		t.Fatalf("expected an error for an unknown instruction")
	}
	if _, err := stackEffect("invokestatic Prog/f$0_0([)V"); err == nil {
		t.Fatalf("expected an error for a malformed descriptor")
	}
}

func TestAssignmentTargetBeforeValue(t *testing.T) {
	text := string(compile(t, `
let
  type a = array of int
  type r = {x: int}
  type ra = array of r
  var arr := a[2] of 0
  var recs := ra[2] of r{x = 0}
  function f(s: string): int = (print(s); 1)
in
  arr[f("i")] := f("v");
  recs[f("r")].x := f("v")
end`).Text)
	call := "invokestatic Prog/f$0_4(Ljava/lang/String;)I"
	expectLines(t, text, "aload 1", `ldc "i"`, call, `ldc "v"`, call, "iastore")
	expectLines(t, text,
		"aload 2",
		`ldc "r"`,
		call,
		"aaload",
		`ldc "x"`,
		`ldc "v"`,
		call,
		"invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;",
		"invokevirtual java/util/HashMap/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;",
		"pop")
}

func TestWhileLoopLayout(t *testing.T) {
	result := compile(t, "while 1 do break")
	expectLines(t, string(result.Text),
		"goto TEST$0_0",
		"LOOP$0_1:",
		"goto ENDWHILE$0_2",
		"TEST$0_0:",
		"iconst_1",
		"ifne LOOP$0_1",
		"ENDWHILE$0_2:",
		"return")
}

func TestLogicalOperators(t *testing.T) {
	text := string(compile(t, "1 & 0").Text)
	expectLines(t, text,
		"iconst_1",
		"ifne RIGHT$0_0",
		"iconst_0",
		"goto JOIN$0_1",
		"RIGHT$0_0:",
		"iconst_0",
		"JOIN$0_1:")
	text = string(compile(t, "0 | 1").Text)
	expectLines(t, text,
		"iconst_0",
		"ifeq RIGHT$0_0",
		"iconst_1",
		"goto JOIN$0_1")
}

func TestComparisonsByOperandType(t *testing.T) {
	text := string(compile(t, `"a" < "b"`).Text)
	expectLines(t, text,
		`ldc "a"`,
		`ldc "b"`,
		"invokevirtual java/lang/String/compareTo(Ljava/lang/String;)I",
		"iflt TRUE$0_0")
	text = string(compile(t, "let type r = {x: int} var v: r := nil in nil <> v end").Text)
	expectLines(t, text, "aconst_null", "aload 1", "if_acmpne TRUE$0_0")
}

func TestRecordsUseMaps(t *testing.T) {
	text := string(compile(t, `
let
  type r = {x: int, s: string}
  var v := r{x = 1, s = "a"}
in v.x := 2; v.s end`).Text)
	expectLines(t, text,
		"new java/util/HashMap",
		"dup",
		"invokespecial java/util/HashMap/<init>()V",
		"dup",
		`ldc "x"`,
		"iconst_1",
		"invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;",
		"invokevirtual java/util/HashMap/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;",
		"pop",
		"dup",
		`ldc "s"`,
		`ldc "a"`,
		"invokevirtual java/util/HashMap/put(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;",
		"pop",
		"astore 1",
		"aload 1",
		`ldc "x"`,
		"iconst_2",
		"invokestatic java/lang/Integer/valueOf(I)Ljava/lang/Integer;")
	expectLines(t, text,
		"aload 1",
		`ldc "s"`,
		"invokevirtual java/util/HashMap/get(Ljava/lang/Object;)Ljava/lang/Object;",
		"checkcast java/lang/String")
	text = string(compile(t, "let type r = {x: int} var v := r{x = 1} in v.x end").Text)
	expectLines(t, text,
		"invokevirtual java/util/HashMap/get(Ljava/lang/Object;)Ljava/lang/Object;",
		"checkcast java/lang/Integer",
		"invokevirtual java/lang/Integer/intValue()I")
}

func TestSequenceDiscardsValues(t *testing.T) {
	text := string(compile(t, `(1; print("x"); 2)`).Text)
	expectLines(t, text,
		"iconst_1",
		"pop",
		`ldc "x"`,
		"invokestatic TigerStdLib/print(Ljava/lang/String;)V",
		"iconst_2")
}

func TestLibraryCalls(t *testing.T) {
	text := string(compile(t, `substring("hello", 1, 3)`).Text)
	expectLines(t, text,
		`ldc "hello"`,
		"iconst_1",
		"iconst_3",
		"invokestatic TigerStdLib/substring(Ljava/lang/String;II)Ljava/lang/String;")
}

func TestReadOnlyCaptureIsPassedByValue(t *testing.T) {
	result := compile(t, `
let
  var base := 10
  function add(x: int): int = x + base
in add(5) end`)
	text := string(result.Text)
	expectLines(t, text, "bipush 10", "istore 1", "iconst_5", "iload 1", "invokestatic Prog/add$0_0(II)I")
	expectLines(t, text,
		".method public static add$0_0(II)I",
		".limit locals 2",
		".limit stack 10",
		"iload 0",
		"iload 1",
		"iadd",
		"ireturn")
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestAssignedCaptureLivesInCell(t *testing.T) {
	result := compile(t, `
let
  var count := 0
  function inc() = count := count + 1
in inc(); inc(); count end`)
	text := string(result.Text)
	expectLines(t, text,
		"iconst_1",
		"newarray int",
		"dup",
		"iconst_0",
		"iconst_0",
		"iastore",
		"astore 1",
		"aload 1",
		"invokestatic Prog/inc$0_0([I)V",
		"aload 1",
		"invokestatic Prog/inc$0_0([I)V",
		"aload 1",
		"iconst_0",
		"iaload")
	expectLines(t, text,
		".method public static inc$0_0([I)V",
		".limit locals 1",
		".limit stack 10",
		"aload 0",
		"iconst_0",
		"aload 0",
		"iconst_0",
		"iaload",
		"iconst_1",
		"iadd",
		"iastore",
		"return")
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "count") {
		t.Fatalf("warnings = %v", result.Warnings)
	}
}

func TestCapturesPropagateThroughNestedFunctions(t *testing.T) {
	text := string(compile(t, `
let
  var n := 3
  function outer(): int =
    let function inner(): int = n in inner() end
in outer() end`).Text)
	expectLines(t, text, "iconst_3", "istore 1", "iload 1", "invokestatic Prog/outer$0_0(I)I")
	expectLines(t, text, ".method public static outer$0_0(I)I", ".limit locals 1", ".limit stack 10", "iload 0", "invokestatic Prog/inner$1_1(I)I", "ireturn")
	expectLines(t, text, ".method public static inner$1_1(I)I", ".limit locals 1", ".limit stack 10", "iload 0", "ireturn")
	if strings.Index(text, "inner$1_1(I)I\n.limit") > strings.Index(text, "outer$0_0(I)I\n.limit") {
		t.Fatalf("nested function fragment should precede its enclosing function:\n%s", text)
	}
}

func TestStringLiteralsAreEscaped(t *testing.T) {
	if got := quote("a\"b\\c\n\t\x01"); got != `"a\"b\\c\n\t\u0001"` {
		t.Fatalf("quote = %s", got)
	}
}

func TestCompileRefusesIllTypedPrograms(t *testing.T) {
	expr, err := parser.Parse("bad.tig", `let var x := 10 in x + "a" end`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := New(Options{}).Compile(expr); err == nil {
		t.Fatalf("expected an error for an ill-typed program")
	}
}

func TestFrameHighWaterMark(t *testing.T) {
	f := NewFrame(1)
	if got := f.AllocLocal(); got != 1 {
		t.Fatalf("first slot = %d, want 1", got)
	}
	f.AllocLocal()
	f.PopLocal()
	f.PopLocal()
	if got := f.AllocLocal(); got != 1 {
		t.Fatalf("reused slot = %d, want 1", got)
	}
	if f.FrameEnd() != 2 || f.MaxLocals() != 3 {
		t.Fatalf("FrameEnd = %d, MaxLocals = %d; want 2, 3", f.FrameEnd(), f.MaxLocals())
	}
}

func TestClassNameFor(t *testing.T) {
	cases := map[string]string{
		"prog.tig":         "Prog",
		"dir/queens.tig":   "Queens",
		"my-prog.tig":      "My_prog",
		"9lives.tig":       "_9lives",
		"":                 DefaultClassName,
		"-":                DefaultClassName,
		`C:\src\merge.tig`: "Merge",
	}
	for in, want := range cases {
		if got := ClassNameFor(in); got != want {
			t.Fatalf("ClassNameFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteCreatesJasminFile(t *testing.T) {
	result := compile(t, "42")
	dir := filepath.Join(t.TempDir(), "out")
	if err := result.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "Prog.j"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != string(result.Text) {
		t.Fatalf("written file differs from result text")
	}
}

func TestWriteRejectsEmptyDir(t *testing.T) {
	if err := compile(t, "1").Write(""); err == nil {
		t.Fatalf("expected an error for an empty output dir")
	}
}
