// errors.go: exception plumbing and user-facing error rendering.
//
// Runtime failures travel in-band: every fallible operation returns the
// Exception sentinel, and the payload (a string value formed at the raising
// site) is pushed onto the runtime's exception list, which behaves like a
// stack. GetException pops the most recent payload; PrintException formats
// it to the runtime's output. There is no try/catch in the dialect; the
// driver prints and discards between REPL iterations and aborts script mode
// on the first uncaught exception.
//
// Reader-side failures additionally surface as Go errors (*LexError,
// *ParseError) carrying a position, so the CLI can render a caret-annotated
// snippet via WrapErrorWithSource:
//
//	PARSE ERROR at 3:13: unexpected ")"
//
//	   2 | (define x 1)
//	   3 |   (cons 1 2))
//	     |             ^
//
// Line is 1-based, Col 0-based in the error structs; the snippet renders
// columns 1-based. IsIncomplete recognizes the unexpected-EOF parse error,
// which the REPL uses to keep prompting for continuation lines.
package lisp

import (
	"fmt"
	"strings"
)

// ParseErrorCode classifies reader failures.
type ParseErrorCode int

const (
	PEEOF ParseErrorCode = iota + 1
	PEEarlyEOF
	PEExpectRightParen
	PEInvalidNumberLiteral
	PEInvalidBooleanLiteral
	PEInvalidToken
	PEInvalidEscapeSequence
)

// LexError is a tokenizer failure with a source position.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError is a parser failure with a source position.
type ParseError struct {
	Code ParseErrorCode
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is an unexpected-EOF parse error, i.e.
// the input so far is a prefix of a well-formed form.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Code == PEEarlyEOF
}

// throw pushes the payload onto the runtime's exception list and returns
// the sentinel. The payload is rooted across the push so a collection at
// the pair allocation cannot reclaim it.
func throw(env *Env, payload Value) Value {
	rt := env.runtime()
	frame := rt.heap.pushFrame()
	defer rt.heap.popFrame()
	frame.keep(payload)
	rt.exceptionList = NewPair(env, payload, rt.exceptionList)
	return Exception
}

func throwError(env *Env, format string, args ...interface{}) Value {
	return throw(env, NewString(env, fmt.Sprintf(format, args...)))
}

func throwTypeError(env *Env, format string, args ...interface{}) Value {
	return throwError(env, "type error: "+format, args...)
}

func throwUnboundVariable(env *Env, name string) Value {
	return throwError(env, "unbound variable: %s", name)
}

func throwArityError(env *Env, format string, args ...interface{}) Value {
	return throwError(env, "arity error: "+format, args...)
}

func throwInternalError(env *Env, format string, args ...interface{}) Value {
	return throwError(env, format, args...)
}

// GetException pops the most recently raised payload. Popping an empty
// list is itself an error and yields Exception.
func GetException(env *Env) Value {
	rt := env.runtime()
	val := car(env, rt.exceptionList)
	rt.exceptionList = cdr(env, rt.exceptionList)
	return val
}

// PrintException pops and prints the most recent payload, prefixed by the
// environment's diagnostic name.
func PrintException(env *Env) {
	err := GetException(env)
	if IsException(err) {
		panic("lisp: PrintException with empty exception list")
	}
	fmt.Fprintf(env.runtime().out, "%s: %s\n", env.name, ToString(env, err))
}

/* ===========================
   Caret-snippet rendering
   =========================== */

// WrapErrorWithSource augments lexer/parser errors with a caret-annotated
// snippet of src. Other errors pass through unchanged.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettySnippet(src, "LEXICAL ERROR", e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettySnippet(src, "PARSE ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettySnippet builds the header plus up to one line of context on each
// side, with a caret under the 1-based column. The line is clamped into
// range and the column raised to at least 1, so rendering never fails.
func prettySnippet(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
