package builtins

import "testing"

func TestStandardDescriptors(t *testing.T) {
	lib := Standard()
	cases := map[string]string{
		"print":     "print(Ljava/lang/String;)V",
		"printi":    "printi(I)V",
		"flush":     "flush()V",
		"getchar":   "getchar()Ljava/lang/String;",
		"ord":       "ord(Ljava/lang/String;)I",
		"chr":       "chr(I)Ljava/lang/String;",
		"size":      "size(Ljava/lang/String;)I",
		"substring": "substring(Ljava/lang/String;II)Ljava/lang/String;",
		"concat":    "concat(Ljava/lang/String;Ljava/lang/String;)Ljava/lang/String;",
		"not":       "not(I)I",
		"exit":      "exit(I)V",
	}
	if got := len(lib.Functions()); got != len(cases) {
		t.Fatalf("library has %d functions, want %d", got, len(cases))
	}
	for name, want := range cases {
		fn, ok := lib.Lookup(name)
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if got := fn.Descriptor(); got != want {
			t.Fatalf("%s descriptor = %q, want %q", name, got, want)
		}
	}
	if lib.Class() != "TigerStdLib" {
		t.Fatalf("Class() = %q", lib.Class())
	}
}

func TestFunctionsReturnsCopy(t *testing.T) {
	lib := Standard()
	fns := lib.Functions()
	fns[0] = Function{}
	if lib.Functions()[0].Name == nil {
		t.Fatalf("mutating the returned slice must not change the library")
	}
}

func TestTypeNames(t *testing.T) {
	names := Standard().Types()
	if len(names) != 2 || names[0].Name.String() != "int" || names[1].Name.String() != "string" {
		t.Fatalf("unexpected type names: %+v", names)
	}
}

func TestSubstringTakesBeginAndEnd(t *testing.T) {
	fn, ok := Standard().Lookup("substring")
	if !ok {
		t.Fatalf("missing substring")
	}
	var names []string
	for _, param := range fn.Params {
		names = append(names, param.Name.String())
	}
	if len(names) != 3 || names[0] != "s" || names[1] != "first" || names[2] != "end" {
		t.Fatalf("substring params = %v, want [s first end]", names)
	}
}
