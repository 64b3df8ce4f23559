// symbol.go: the process-level symbol interner.
//
// Symbols are canonical per runtime: for any case-folded name exactly one
// Symbol object exists, so identity comparison is name comparison. The
// reader case-folds to upper case when interning: the user writes
// `define`, the interpreter sees `DEFINE`.
package lisp

import "strings"

// Symbol is an interned identifier. Two symbols are equal iff they are the
// same object.
type Symbol struct {
	object
	Name string // canonical (upper-cased) spelling
}

func (s *Symbol) trace(func(Value)) {}

// Intern returns the canonical symbol for name, allocating on first use.
// Lookup is case-insensitive; the stored spelling is upper case.
func Intern(env *Env, name string) Value {
	rt := env.runtime()
	folded := strings.ToUpper(name)
	if sym, ok := rt.interned[folded]; ok {
		return Value{Tag: VTSymbol, Data: sym}
	}
	sym := &Symbol{Name: folded}
	rt.heap.alloc(sym)
	rt.interned[folded] = sym
	return Value{Tag: VTSymbol, Data: sym}
}

func symbolName(v Value) string {
	return v.Data.(*Symbol).Name
}
