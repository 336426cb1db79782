// Package typechecker implements Tiger's static semantics. It walks the AST
// once, binding values and functions in one namespace and types in another,
// and accumulates diagnostics instead of stopping at the first error. A
// program with any diagnostic must not reach the interpreter or the
// compiler.
package typechecker
