package lisp

import "testing"

func Test_Heap_CollectReclaimsGarbage(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	rt.Collect()
	base := rt.LiveCount()

	for i := 0; i < 1000; i++ {
		NewPair(env, Int(1), Int(2))
	}
	rt.Collect()
	if live := rt.LiveCount(); live > base {
		t.Fatalf("unreachable pairs survived: base %d, live %d", base, live)
	}
}

func Test_Heap_RootedValuesSurvive(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	evalSource(t, env, "(define keep (list 1 2 3))")
	rt.Collect()
	rt.Collect()

	v := evalSource(t, env, "keep")
	if ToString(env, v) != "(1 2 3)" {
		t.Fatalf("rooted list damaged by collection: %s", ToString(env, v))
	}
}

func Test_Heap_CycleReclamation(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	// A closure whose captured environment binds the closure itself: the
	// canonical cycle naive refcounting leaks.
	evalSource(t, env, `
		(define (mk) (letrec ((self (lambda () self))) self))`)
	evalSource(t, env, "(mk)")
	rt.Collect()
	base := rt.LiveCount()

	for i := 0; i < 200; i++ {
		evalSource(t, env, "(mk)")
	}
	rt.Collect()
	if live := rt.LiveCount(); live > base+8 {
		t.Fatalf("cyclic closures leaked: base %d, live %d", base, live)
	}
}

func Test_Heap_LeakScenario(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	evalSource(t, env, `
		(define (leak) (let ((p (cons 1 2))) (set! p (cons p p)) p))`)
	evalSource(t, env, "(leak)")
	rt.Collect()
	base := rt.LiveCount()

	evalSource(t, env, "(leak) (leak) (leak) (gc)")
	rt.Collect()
	if live := rt.LiveCount(); live > base+8 {
		t.Fatalf("leaked pairs survived gc: base %d, live %d", base, live)
	}
}

func Test_Heap_LiveCountBoundedUnderChurn(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	evalSource(t, env, "(define (churn n) (if (= n 0) () (begin (cons n n) (churn (- n 1)))))")
	rt.Collect()
	base := rt.LiveCount()

	evalSource(t, env, "(churn 50) (churn 50) (churn 50)")
	rt.Collect()
	if live := rt.LiveCount(); live > base+8 {
		t.Fatalf("live count grew without bound: base %d, live %d", base, live)
	}
}

func Test_Heap_InternedSymbolsSurvive(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	sym := Intern(env, "long-lived").Data.(*Symbol)
	rt.Collect()
	rt.Collect()

	again := Intern(env, "LONG-LIVED").Data.(*Symbol)
	if sym != again {
		t.Fatal("interned symbol was reclaimed or re-created")
	}
}

// finalizing test object; counts how often the hook runs.
type finalizeProbe struct {
	object
	runs *int
}

func (p *finalizeProbe) trace(func(Value)) {}
func (p *finalizeProbe) finalize()         { *p.runs++ }

func Test_Heap_FinalizeRunsExactlyOnce(t *testing.T) {
	rt, env, _ := newTestEnv(t)
	_ = env

	runs := 0
	rt.heap.alloc(&finalizeProbe{runs: &runs})
	rt.Collect()
	if runs != 1 {
		t.Fatalf("finalize runs after first collect: %d", runs)
	}
	rt.Collect()
	rt.Collect()
	if runs != 1 {
		t.Fatalf("finalize must run exactly once, ran %d times", runs)
	}
}

func Test_Heap_CollectIsIdempotent(t *testing.T) {
	rt, env, _ := newTestEnv(t)

	evalSource(t, env, "(define x (list 1 2 3))")
	rt.Collect()
	a := rt.LiveCount()
	rt.Collect()
	b := rt.LiveCount()
	if a != b {
		t.Fatalf("repeated collects disagree: %d then %d", a, b)
	}
}
