package typechecker

import "github.com/hopsage/TigerC/pkg/types"

// Entry is a binding in the value namespace.
type Entry interface {
	isEntry()
}

// VarEntry binds a variable or formal.
type VarEntry struct {
	Type types.Type
	// Assignable is false for for-loop counters.
	Assignable bool
}

func (*VarEntry) isEntry() {}

// FuncEntry binds a function signature. Result is types.Void for
// procedures.
type FuncEntry struct {
	Params []types.Field
	Result types.Type
}

func (*FuncEntry) isEntry() {}
