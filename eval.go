// eval.go: the tree-walking evaluator.
//
// Dispatch is by value shape: a non-empty pair is a call form, a symbol is
// a variable reference, everything else evaluates to itself. The head of a
// call form is evaluated first; a Syntax callee receives its argument forms
// unevaluated, a Procedure callee gets its arguments evaluated strictly
// left to right in the caller's environment. Interpreted procedures run
// their body in a fresh child of the *captured* environment. Evaluation is
// eager and recursion rides the host stack; there is no tail-call
// optimization.
//
// Every stretch of evaluation pushes a root frame so in-flight values
// survive collections triggered by allocation.
package lisp

// NativeFunc is the implementation signature of a native procedure. args
// holds the evaluated arguments; missing optional slots (fixed-arity
// natives called with fewer arguments) are Nil.
type NativeFunc func(env *Env, args []Value) Value

// Procedure is a first-class callable: interpreted (params + body +
// captured env) or native (Go function + arg limit).
type Procedure struct {
	object
	Name   *Symbol
	Params Value
	Body   Value
	Env    *Env

	Native NativeFunc
	ArgMax int // applies to natives; -1 means variadic
}

func (p *Procedure) trace(visit func(Value)) {
	visit(Value{Tag: VTSymbol, Data: p.Name})
	visit(p.Params)
	visit(p.Body)
	if p.Env != nil {
		visit(Value{Tag: VTEnv, Data: p.Env})
	}
}

// SyntaxFunc handles a special form. form is the unevaluated argument
// list; magic lets one handler serve related forms (let/let*/letrec).
type SyntaxFunc func(env *Env, form Value, magic int, data []Value) Value

// Syntax is the primitive special-form handler object.
type Syntax struct {
	object
	fn    SyntaxFunc
	magic int
	data  []Value
}

func (s *Syntax) trace(visit func(Value)) {
	for _, v := range s.data {
		visit(v)
	}
}

func newProcedure(env *Env, name, params, body Value) Value {
	if IsException(name) || IsException(params) || IsException(body) {
		return Exception
	}
	if !IsSymbol(name) {
		return throwTypeError(env, "procedure name is not a symbol")
	}
	p := &Procedure{
		Name:   name.Data.(*Symbol),
		Params: params,
		Body:   body,
		Env:    env,
		ArgMax: -1,
	}
	env.runtime().heap.alloc(p)
	return Value{Tag: VTProc, Data: p}
}

func newNativeProcedure(env *Env, name string, fn NativeFunc, argMax int) Value {
	sym := Intern(env, name)
	p := &Procedure{
		Name:   sym.Data.(*Symbol),
		Params: Nil,
		Body:   Nil,
		Env:    env,
		Native: fn,
		ArgMax: argMax,
	}
	env.runtime().heap.alloc(p)
	return Value{Tag: VTProc, Data: p}
}

func newSyntax(env *Env, fn SyntaxFunc, magic int, data []Value) Value {
	s := &Syntax{fn: fn, magic: magic, data: data}
	env.runtime().heap.alloc(s)
	return Value{Tag: VTSyntax, Data: s}
}

// Eval evaluates val against env and returns the result or Exception.
func Eval(env *Env, val Value) Value {
	if IsException(val) {
		return Exception
	}

	if IsPair(val) {
		h := env.runtime().heap
		frame := h.pushFrame()
		defer h.popFrame()
		frame.keep(val)
		frame.keep(Value{Tag: VTEnv, Data: env})

		callee := Eval(env, val.Data.(*Pair).Car)
		if IsException(callee) {
			return Exception
		}
		frame.keep(callee)
		args := val.Data.(*Pair).Cdr

		switch callee.Tag {
		case VTProc:
			return invokeProcedure(env, callee.Data.(*Procedure), args, frame)
		case VTSyntax:
			s := callee.Data.(*Syntax)
			return s.fn(env, args, s.magic, s.data)
		default:
			return throwTypeError(env, "not a procedure")
		}
	}

	if IsSymbol(val) {
		return lookupVar(env, val)
	}

	return val
}

// evalList evaluates forms sequentially and returns the last result, or
// Nil for an empty list. Procedure bodies and begin share it.
func evalList(env *Env, list Value) Value {
	val := Nil
	for IsPair(list) {
		p := list.Data.(*Pair)
		val = Eval(env, p.Car)
		if IsException(val) {
			return Exception
		}
		list = p.Cdr
	}
	if !IsNil(list) {
		return throwTypeError(env, "improper form list")
	}
	return val
}

// evalArgs evaluates an argument form list left to right into a buffer
// rooted in frame. For a fixed-arity native (argMax >= 0) the buffer is
// padded with Nil up to argMax; more than argMax arguments is an arity
// error.
func evalArgs(env *Env, args Value, argMax int, frame *rootFrame) ([]Value, bool) {
	argc := listLength(args)
	if argMax >= 0 && argc > argMax {
		throwArityError(env, "too many arguments")
		return nil, false
	}
	n := argc
	if argMax > n {
		n = argMax
	}
	arr := make([]Value, n)
	for i := range arr {
		arr[i] = Nil
	}
	cur := args
	for i := 0; i < argc; i++ {
		form := car(env, cur)
		cur = cdr(env, cur)
		v := Eval(env, form)
		if IsException(v) {
			return nil, false
		}
		arr[i] = frame.keep(v)
	}
	return arr, true
}

func invokeProcedure(env *Env, proc *Procedure, args Value, frame *rootFrame) Value {
	argv, ok := evalArgs(env, args, proc.ArgMax, frame)
	if !ok {
		return Exception
	}
	return applyProcedure(env, proc, argv)
}

// applyProcedure calls proc on already-evaluated arguments. The apply
// native enters here directly, bypassing re-evaluation.
func applyProcedure(env *Env, proc *Procedure, argv []Value) Value {
	if proc.Native != nil {
		return proc.Native(env, argv)
	}

	h := env.runtime().heap
	frame := h.pushFrame()
	defer h.popFrame()
	for _, v := range argv {
		frame.keep(v)
	}

	callEnv := newEnvExtended(proc.Env, proc.Name.Name)
	frame.keep(Value{Tag: VTEnv, Data: callEnv})

	if !bindParams(env, callEnv, proc, argv, frame) {
		return Exception
	}
	return evalList(callEnv, proc.Body)
}

// bindParams binds the parameter specification against argv in callEnv.
// Specs: a proper list of symbols (positional), a bare symbol (rest-only),
// or an improper list (positional + rest).
func bindParams(env, callEnv *Env, proc *Procedure, argv []Value, frame *rootFrame) bool {
	params := proc.Params
	i := 0
	for {
		if IsNil(params) {
			if i < len(argv) {
				throwArityError(env, "too many arguments to %s", proc.Name.Name)
				return false
			}
			return true
		}
		if IsSymbol(params) {
			rest := Nil
			for j := len(argv) - 1; j >= i; j-- {
				rest = frame.keep(NewPair(env, argv[j], rest))
				if IsException(rest) {
					return false
				}
			}
			return defineVar(callEnv, params, rest)
		}
		if !IsPair(params) {
			throwTypeError(env, "invalid parameter list of %s", proc.Name.Name)
			return false
		}
		if i >= len(argv) {
			throwArityError(env, "too few arguments to %s", proc.Name.Name)
			return false
		}
		p := params.Data.(*Pair)
		if !defineVar(callEnv, p.Car, argv[i]) {
			return false
		}
		i++
		params = p.Cdr
	}
}
