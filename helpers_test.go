package lisp

import (
	"bytes"
	"strings"
	"testing"
)

// newTestEnv builds a fresh runtime with output captured in a buffer.
func newTestEnv(t *testing.T) (*Runtime, *Env, *bytes.Buffer) {
	t.Helper()
	rt := NewRuntime()
	env := NewTopLevelEnv(rt)
	var out bytes.Buffer
	rt.SetOutput(&out)
	return rt, env, &out
}

// evalSource reads and evaluates every form in src, returning the last
// result. Any parse or eval failure fails the test.
func evalSource(t *testing.T, env *Env, src string) Value {
	t.Helper()
	rd := NewReader(env, strings.NewReader(src))
	last := Nil
	for {
		form := rd.ReadForm()
		if IsEOF(form) {
			return last
		}
		if IsException(form) {
			t.Fatalf("parse error in %q: %s", src, exceptionText(env))
		}
		last = Eval(env, form)
		if IsException(last) {
			t.Fatalf("eval error in %q: %s", src, exceptionText(env))
		}
	}
}

// evalExpectError runs src and requires it to raise an exception whose
// payload contains want. Returns the payload text.
func evalExpectError(t *testing.T, env *Env, src, want string) string {
	t.Helper()
	rd := NewReader(env, strings.NewReader(src))
	for {
		form := rd.ReadForm()
		if IsEOF(form) {
			t.Fatalf("expected error containing %q, but %q succeeded", want, src)
		}
		if IsException(form) {
			return wantExceptionContains(t, env, want)
		}
		if val := Eval(env, form); IsException(val) {
			return wantExceptionContains(t, env, want)
		}
	}
}

func wantExceptionContains(t *testing.T, env *Env, want string) string {
	t.Helper()
	msg := exceptionText(env)
	if !strings.Contains(msg, want) {
		t.Fatalf("exception %q does not contain %q", msg, want)
	}
	return msg
}

// exceptionText pops the most recent payload as plain text.
func exceptionText(env *Env) string {
	v := GetException(env)
	if IsException(v) {
		return "<empty exception list>"
	}
	if v.Tag == VTString {
		return v.Data.(*String).Str
	}
	return ToString(env, v)
}

// readOne parses a single form out of src.
func readOne(t *testing.T, env *Env, src string) Value {
	t.Helper()
	rd := NewReader(env, strings.NewReader(src))
	form := rd.ReadForm()
	if IsException(form) || IsEOF(form) {
		t.Fatalf("cannot read %q: %v", src, rd.Err())
	}
	return form
}

func wantInt(t *testing.T, v Value, n int32) {
	t.Helper()
	if v.Tag != VTInt || v.Data.(int32) != n {
		t.Fatalf("want %d, got %#v", n, v)
	}
}

func wantBool(t *testing.T, v Value, b bool) {
	t.Helper()
	if v.Tag != VTBool || v.Data.(bool) != b {
		t.Fatalf("want %v, got %#v", b, v)
	}
}
