// printer.go: value-to-string formatting.
//
// Output round-trips through the reader for the data subset: nil, booleans,
// integers, symbols, strings (with \\ \" \n \t re-escaped), and pairs.
// Vectors print as #(e0 ... eN); procedures as [Procedure NAME]. Formatting
// an Exception is a bug in the caller and panics.
package lisp

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString formats val. The env parameter carries the runtime; formatting
// allocates nothing on the lisp heap.
func ToString(env *Env, val Value) string {
	var b strings.Builder
	formatValue(env, val, &b)
	return b.String()
}

// PrintValue writes ToString plus a newline to the runtime's output.
func PrintValue(env *Env, val Value) {
	fmt.Fprintln(env.runtime().out, ToString(env, val))
}

func formatValue(env *Env, val Value, b *strings.Builder) {
	switch val.Tag {
	case VTException:
		panic("lisp: formatting an Exception value")

	case VTEOF:
		b.WriteString("#EOF")

	case VTList:
		if IsNil(val) {
			b.WriteString("()")
			return
		}
		formatPair(env, val.Data.(*Pair), b)

	case VTBool:
		if val.Data.(bool) {
			b.WriteString("#T")
		} else {
			b.WriteString("#F")
		}

	case VTInt:
		b.WriteString(strconv.FormatInt(int64(val.Data.(int32)), 10))

	case VTSymbol:
		b.WriteString(val.Data.(*Symbol).Name)

	case VTString:
		formatString(val.Data.(*String).Str, b)

	case VTVector:
		vec := val.Data.(*Vector)
		b.WriteString("#(")
		for i, e := range vec.data {
			if i > 0 {
				b.WriteByte(' ')
			}
			formatValue(env, e, b)
		}
		b.WriteByte(')')

	case VTProc:
		fmt.Fprintf(b, "[Procedure %s]", val.Data.(*Procedure).Name.Name)

	case VTSyntax:
		b.WriteString("[Syntax]")

	case VTEnv:
		fmt.Fprintf(b, "[Environment %s]", val.Data.(*Env).name)

	default:
		b.WriteString("#OBJECT")
	}
}

func formatPair(env *Env, pair *Pair, b *strings.Builder) {
	b.WriteByte('(')
	for first := true; ; first = false {
		if !first {
			b.WriteByte(' ')
		}
		formatValue(env, pair.Car, b)

		cdr := pair.Cdr
		if IsNil(cdr) {
			b.WriteByte(')')
			return
		}
		if IsPair(cdr) {
			pair = cdr.Data.(*Pair)
			continue
		}
		b.WriteString(" . ")
		formatValue(env, cdr, b)
		b.WriteByte(')')
		return
	}
}

func formatString(s string, b *strings.Builder) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('"')
}
