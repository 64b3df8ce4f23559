package lisp

import "testing"

func Test_Builtin_MakeVector(t *testing.T) {
	_, env, _ := newTestEnv(t)

	evalSource(t, env, "(define v (make-vector 4 7))")
	wantInt(t, evalSource(t, env, "(vector-length v)"), 4)
	wantInt(t, evalSource(t, env, "(vector-capacity v)"), 4)
	for i := 0; i < 4; i++ {
		wantInt(t, evalSource(t, env, "(vector-ref v "+string(rune('0'+i))+")"), 7)
	}

	// Without a fill argument the slots default to nil.
	evalSource(t, env, "(define w (make-vector 2))")
	if !IsNil(evalSource(t, env, "(vector-ref w 0)")) {
		t.Fatal("make-vector default fill should be nil")
	}

	evalExpectError(t, env, "(make-vector -1 0)", "negative length")
}

func Test_Builtin_VectorLiteralAndCopy(t *testing.T) {
	_, env, _ := newTestEnv(t)

	evalSource(t, env, "(define v (vector 1 2 3))")
	wantInt(t, evalSource(t, env, "(vector-length v)"), 3)
	wantInt(t, evalSource(t, env, "(vector-ref v 1)"), 2)

	// vector-copy is a fresh vector: mutating the copy leaves the
	// original alone.
	evalSource(t, env, "(define c (vector-copy v))")
	evalSource(t, env, "(vector-set! c 0 99)")
	wantInt(t, evalSource(t, env, "(vector-ref c 0)"), 99)
	wantInt(t, evalSource(t, env, "(vector-ref v 0)"), 1)
}

func Test_Builtin_VectorSet(t *testing.T) {
	_, env, _ := newTestEnv(t)

	evalSource(t, env, "(define v (vector 1 2 3))")
	if !IsNil(evalSource(t, env, "(vector-set! v 2 'x)")) {
		t.Fatal("vector-set! should return nil")
	}
	v := evalSource(t, env, "(vector-ref v 2)")
	if v.Tag != VTSymbol || symbolName(v) != "X" {
		t.Fatalf("vector-set! did not stick: %#v", v)
	}
}

func Test_Builtin_VectorRangeErrors(t *testing.T) {
	_, env, _ := newTestEnv(t)

	evalSource(t, env, "(define v (vector 1 2 3))")
	evalExpectError(t, env, "(vector-ref v 3)", "out of range")
	evalExpectError(t, env, "(vector-ref v -1)", "out of range")
	evalExpectError(t, env, "(vector-set! v 5 0)", "out of range")
	evalExpectError(t, env, "(vector-ref '(1) 0)", "expected a vector")
}
