// runtime.go: the per-interpreter runtime and the top-level environment.
//
// A Runtime owns the process-wide state of one interpreter instance: the
// object manager, the symbol interner, the pending-exception list, and the
// output stream. It is strictly single-threaded; concurrent use is
// undefined.
//
// NewTopLevelEnv wires the standard environment pair: "<GLOBAL>" holds
// every special form and native procedure, and the returned "TOP-LEVEL"
// child is where user programs run, so user definitions shadow rather
// than clobber the built-ins.
package lisp

import (
	"io"
	"os"
)

// Runtime is one interpreter instance.
type Runtime struct {
	heap          *heap
	interned      map[string]*Symbol
	exceptionList Value
	out           io.Writer

	global   *Env
	topLevel *Env
}

// NewRuntime creates an empty runtime writing to stdout.
func NewRuntime() *Runtime {
	rt := &Runtime{
		interned:      make(map[string]*Symbol),
		exceptionList: Nil,
		out:           os.Stdout,
	}
	rt.heap = newHeap(rt)
	return rt
}

// Free releases the runtime. Freeing with pending exceptions is a caller
// bug.
func (rt *Runtime) Free() {
	if !IsNil(rt.exceptionList) {
		panic("lisp: Runtime.Free with pending exceptions")
	}
	rt.global = nil
	rt.topLevel = nil
	rt.interned = nil
	rt.heap = newHeap(rt)
}

// SetOutput redirects display/print output (stdout by default).
func (rt *Runtime) SetOutput(w io.Writer) { rt.out = w }

// LiveCount reports the number of objects the manager currently tracks.
func (rt *Runtime) LiveCount() int { return rt.heap.live() }

// Collect forces a full collection.
func (rt *Runtime) Collect() { rt.heap.collect() }

func defineNative(env *Env, name string, fn NativeFunc, argMax int) {
	defineVar(env, Intern(env, name), newNativeProcedure(env, name, fn, argMax))
}

func defineSyntax(env *Env, name string, fn SyntaxFunc, magic int) {
	defineVar(env, Intern(env, name), newSyntax(env, fn, magic, nil))
}

// NewTopLevelEnv builds the standard environment chain and returns the
// top-level frame with all special forms and natives pre-registered.
func NewTopLevelEnv(rt *Runtime) *Env {
	global := newEnv(rt, "<GLOBAL>", nil)
	global.top = true
	rt.global = global

	defineSyntax(global, "QUOTE", syntaxQuote, 0)
	defineSyntax(global, "IF", syntaxIf, 0)
	defineSyntax(global, "COND", syntaxCond, 0)
	defineSyntax(global, "DEFINE", syntaxDefine, 0)
	defineSyntax(global, "SET!", syntaxSet, 0)
	defineSyntax(global, "LAMBDA", syntaxLambda, 0)
	defineSyntax(global, "NAMED-LAMBDA", syntaxNamedLambda, 0)
	defineSyntax(global, "LET", syntaxLet, magicLet)
	defineSyntax(global, "LET*", syntaxLet, magicLetStar)
	defineSyntax(global, "LETREC", syntaxLet, magicLetRec)
	defineSyntax(global, "BEGIN", syntaxBegin, 0)

	registerCoreBuiltins(global)
	registerVectorBuiltins(global)
	registerIOBuiltins(global)

	defineVar(global, Intern(global, "#T"), Bool(true))
	defineVar(global, Intern(global, "#F"), Bool(false))
	defineVar(global, Intern(global, "NIL"), Nil)

	top := newEnvExtended(global, "TOP-LEVEL")
	top.top = true
	rt.topLevel = top
	return top
}
