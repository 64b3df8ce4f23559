// reader.go: one-token-lookahead recursive-descent parser.
//
// A Reader pulls tokens from a Lexer and emits one value per ReadForm call,
// allocating through the environment it was created with. Results follow
// the embedding contract: a value, the EOF sentinel at clean end of input,
// or Exception (the parse error payload is pushed on the runtime's
// exception list, and the structured Go error is retained for Err so the
// CLI can render a caret snippet).
package lisp

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reader parses a stream of forms.
type Reader struct {
	env *Env
	lex *Lexer

	peeked  *Token
	lastErr error
}

// NewReader creates a reader that allocates into env's runtime.
func NewReader(env *Env, r io.Reader) *Reader {
	return &Reader{env: env, lex: NewLexer(r)}
}

// Err returns the Go-level error of the most recent failing ReadForm, or
// nil. Useful for caret snippets; the lisp-level payload is on the
// exception list regardless.
func (rd *Reader) Err() error { return rd.lastErr }

func (rd *Reader) peekToken() (Token, bool) {
	if rd.peeked == nil {
		tok, err := rd.lex.Next()
		if err != nil {
			rd.fail(err)
			return Token{}, false
		}
		rd.peeked = &tok
	}
	return *rd.peeked, true
}

func (rd *Reader) nextToken() (Token, bool) {
	tok, ok := rd.peekToken()
	if ok {
		rd.peeked = nil
	}
	return tok, ok
}

// fail records err and pushes its message as the exception payload.
func (rd *Reader) fail(err error) Value {
	rd.lastErr = err
	return throwError(rd.env, "%s", err.Error())
}

func (rd *Reader) parseError(code ParseErrorCode, tok Token, format string, args ...interface{}) Value {
	return rd.fail(&ParseError{
		Code: code,
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// ReadForm parses and returns the next top-level form. Clean end of input
// yields the EOF sentinel (IsEOF); any failure yields Exception.
func (rd *Reader) ReadForm() Value {
	rd.lastErr = nil
	frame := rd.env.runtime().heap.pushFrame()
	defer rd.env.runtime().heap.popFrame()
	return rd.readForm(frame, true)
}

func (rd *Reader) readForm(frame *rootFrame, topLevel bool) Value {
	tok, ok := rd.peekToken()
	if !ok {
		return Exception
	}

	switch tok.Type {
	case TokEOF:
		if topLevel {
			return eofValue
		}
		return rd.parseError(PEEarlyEOF, tok, "unexpected end of input")

	case TokLParen, TokLBracket:
		return rd.readList(frame)

	case TokRParen, TokRBracket:
		rd.nextToken()
		return rd.parseError(PEExpectRightParen, tok, "unexpected %q", tok.Text)

	case TokQuote:
		rd.nextToken()
		quoted := rd.readForm(frame, false)
		if IsException(quoted) {
			return Exception
		}
		frame.keep(quoted)
		inner := frame.keep(NewPair(rd.env, quoted, Nil))
		return NewPair(rd.env, Intern(rd.env, "QUOTE"), inner)

	default:
		return rd.readAtom(frame)
	}
}

func (rd *Reader) readList(frame *rootFrame) Value {
	open, _ := rd.nextToken()
	closing := TokRParen
	closingText := ")"
	if open.Type == TokLBracket {
		closing = TokRBracket
		closingText = "]"
	}

	val := Nil
	var tailPair *Pair

	link := func(form Value) Value {
		cell := NewPair(rd.env, form, Nil)
		if IsException(cell) {
			return Exception
		}
		if tailPair == nil {
			val = frame.keep(cell)
		} else {
			tailPair.Cdr = cell
		}
		tailPair = cell.Data.(*Pair)
		return cell
	}

	for {
		tok, ok := rd.peekToken()
		if !ok {
			return Exception
		}
		if tok.Type == TokEOF {
			return rd.parseError(PEEarlyEOF, tok, "unexpected end of input in list")
		}
		if tok.Type == closing {
			rd.nextToken()
			return val
		}
		if tok.Type == TokRParen || tok.Type == TokRBracket {
			rd.nextToken()
			return rd.parseError(PEExpectRightParen, tok,
				"expected %q but got %q", closingText, tok.Text)
		}

		if tok.Type == TokDot {
			rd.nextToken()
			if tailPair == nil {
				return rd.parseError(PEInvalidToken, tok, "unexpected '.'")
			}
			tail := rd.readForm(frame, false)
			if IsException(tail) {
				return Exception
			}
			tailPair.Cdr = tail
			end, ok2 := rd.nextToken()
			if !ok2 {
				return Exception
			}
			if end.Type != closing {
				return rd.parseError(PEExpectRightParen, end,
					"expected %q but got %q", closingText, end.Text)
			}
			return val
		}

		form := rd.readForm(frame, false)
		if IsException(form) {
			return Exception
		}
		frame.keep(form)
		if IsException(link(form)) {
			return Exception
		}
	}
}

func (rd *Reader) readAtom(frame *rootFrame) Value {
	tok, ok := rd.nextToken()
	if !ok {
		return Exception
	}

	switch tok.Type {
	case TokNumber:
		if strings.ContainsRune(tok.Text, '.') {
			return rd.parseError(PEInvalidNumberLiteral, tok,
				"invalid number literal: %s (floats are not supported)", tok.Text)
		}
		n, err := strconv.ParseInt(tok.Text, 10, 32)
		if err != nil {
			return rd.parseError(PEInvalidNumberLiteral, tok,
				"invalid number literal: %s", tok.Text)
		}
		return Int(int32(n))

	case TokString:
		return NewString(rd.env, tok.Text)

	case TokSymbol:
		if tok.Text[0] == '#' {
			// Only the boolean literals are valid '#' runs.
			if len(tok.Text) != 2 {
				return rd.parseError(PEInvalidBooleanLiteral, tok,
					"invalid boolean: %s", tok.Text)
			}
			switch tok.Text[1] {
			case 't', 'T':
				return Bool(true)
			case 'f', 'F':
				return Bool(false)
			}
			return rd.parseError(PEInvalidBooleanLiteral, tok,
				"invalid boolean: %s", tok.Text)
		}
		return Intern(rd.env, tok.Text)

	default:
		return rd.parseError(PEInvalidToken, tok, "unexpected token %q", tok.Text)
	}
}
