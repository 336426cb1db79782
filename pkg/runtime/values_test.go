package runtime

import (
	"errors"
	"testing"

	"github.com/hopsage/TigerC/pkg/symbol"
)

func TestFormat(t *testing.T) {
	rec := NewRecordValue()
	if err := rec.Init(symbol.Intern("x"), IntValue{Val: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := rec.Init(symbol.Intern("y"), StringValue{Val: "abc"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cases := []struct {
		value Value
		want  string
	}{
		{IntValue{Val: -7}, "-7"},
		{StringValue{Val: "hi"}, "hi"},
		{NilValue{}, "nil"},
		{VoidValue{}, "()"},
		{&ArrayValue{Elements: []Value{IntValue{Val: 1}, IntValue{Val: 2}, IntValue{Val: 3}}}, "[1,2,3]"},
		{&ArrayValue{}, "[]"},
		{rec, "{x=1, y=abc}"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatStopsOnCycles(t *testing.T) {
	self := symbol.Intern("self")
	rec := NewRecordValue()
	if err := rec.Init(self, NilValue{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := rec.Set(self, rec); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, want := Format(rec), "{self={...}}"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}

func TestArrayCellsShareInitializer(t *testing.T) {
	shared := NewRecordValue()
	arr := NewArrayValue(3, shared)
	first, _ := arr.Get(0)
	last, _ := arr.Get(2)
	if first != last {
		t.Fatalf("cells should alias the same initializer")
	}
	if err := arr.Set(1, NewRecordValue()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if again, _ := arr.Get(2); again != Value(shared) {
		t.Fatalf("replacing one cell changed another")
	}
	if _, err := arr.Get(3); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("Get(3) error = %v, want ErrIndexOutOfBounds", err)
	}
	if err := arr.Set(-1, IntValue{}); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Fatalf("Set(-1) error = %v, want ErrIndexOutOfBounds", err)
	}
}

func TestRecordFieldErrors(t *testing.T) {
	rec := NewRecordValue()
	x := symbol.Intern("x")
	if _, err := rec.Get(x); !errors.Is(err, ErrUnsetField) {
		t.Fatalf("Get on unset field error = %v, want ErrUnsetField", err)
	}
	if err := rec.Set(x, IntValue{Val: 1}); !errors.Is(err, ErrUnsetField) {
		t.Fatalf("Set on unset field error = %v, want ErrUnsetField", err)
	}
	if err := rec.Init(x, IntValue{Val: 1}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := rec.Init(x, IntValue{Val: 2}); err == nil {
		t.Fatalf("expected duplicate initialization error")
	}
}

func TestEqual(t *testing.T) {
	a := NewRecordValue()
	b := NewRecordValue()
	if !Equal(a, a) || Equal(a, b) {
		t.Fatalf("records should compare by identity")
	}
	if !Equal(NilValue{}, NilValue{}) || Equal(a, NilValue{}) || Equal(NilValue{}, a) {
		t.Fatalf("nil equality wrong")
	}
	if !Equal(StringValue{Val: "s"}, StringValue{Val: "s"}) || Equal(IntValue{Val: 1}, IntValue{Val: 2}) {
		t.Fatalf("scalar equality wrong")
	}
}

func TestKindString(t *testing.T) {
	if got := KindRecord.String(); got != "record" {
		t.Fatalf("KindRecord.String() = %q", got)
	}
}
