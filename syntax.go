// syntax.go: the special forms.
//
// Each handler receives its argument forms unevaluated, plus the magic
// integer that lets let/let*/letrec share one implementation. All handlers
// are registered into the "<GLOBAL>" environment at startup; the closed
// set is: quote if cond define set! lambda named-lambda let let* letrec
// begin.
package lisp

const (
	magicLet = iota
	magicLetStar
	magicLetRec
)

// (quote exp)
func syntaxQuote(env *Env, form Value, magic int, data []Value) Value {
	return car(env, form)
}

// (if cond then else...): the condition must be a boolean; with a false
// condition the remaining forms evaluate sequentially (an omitted else
// branch yields Nil).
func syntaxIf(env *Env, form Value, magic int, data []Value) Value {
	var heads [2]Value
	var tail Value
	if !listExtract(env, form, heads[:], &tail) {
		return Exception
	}

	cond, ok := toBool(env, Eval(env, heads[0]))
	if !ok {
		return Exception
	}
	if cond {
		return Eval(env, heads[1])
	}
	return evalList(env, tail)
}

// (cond (test body...) ...): tests evaluate in order; the symbol ELSE is
// true and must be the last clause. No matching clause yields Nil.
func syntaxCond(env *Env, form Value, magic int, data []Value) Value {
	args := form
	for !IsNil(args) {
		clause := car(env, args)
		args = cdr(env, args)
		if IsException(clause) || IsException(args) {
			return Exception
		}

		test := car(env, clause)
		body := cdr(env, clause)
		if IsException(test) || IsException(body) {
			return Exception
		}

		var truth bool
		if IsSymbol(test) && test.Data == Intern(env, "ELSE").Data {
			if !IsNil(args) {
				return throwInternalError(env, "ELSE must be the last clause in COND")
			}
			truth = true
		} else {
			var ok bool
			truth, ok = toBool(env, Eval(env, test))
			if !ok {
				return Exception
			}
		}
		if truth {
			return evalList(env, body)
		}
	}
	return Nil
}

// (define name expr) evaluates expr and binds name in the current frame;
// (define (name params...) body...) is procedure-definition sugar.
func syntaxDefine(env *Env, form Value, magic int, data []Value) Value {
	sig := car(env, form)
	if IsException(sig) {
		return Exception
	}

	if IsPair(sig) {
		name := car(env, sig)
		params := cdr(env, sig)
		body := cdr(env, form)
		proc := newProcedure(env, name, params, body)
		if !defineVar(env, name, proc) {
			return Exception
		}
		return Nil
	}

	if IsSymbol(sig) {
		expr := car(env, cdr(env, form))
		value := Eval(env, expr)
		if IsException(value) {
			return Exception
		}
		if !defineVar(env, sig, value) {
			return Exception
		}
		return Nil
	}

	return throwInternalError(env, "DEFINE: invalid syntax")
}

// (set! name expr): assigns in the nearest enclosing binding; never
// defines.
func syntaxSet(env *Env, form Value, magic int, data []Value) Value {
	var heads [2]Value
	if !listExtract(env, form, heads[:], nil) {
		return Exception
	}
	value := Eval(env, heads[1])
	if IsException(value) {
		return Exception
	}
	return assignVar(env, heads[0], value)
}

// (lambda (params...) body...): closure over the current environment with
// a generated name.
func syntaxLambda(env *Env, form Value, magic int, data []Value) Value {
	params := car(env, form)
	body := cdr(env, form)
	return newProcedure(env, Intern(env, "#[lambda]"), params, body)
}

// (named-lambda (name params...) body...)
func syntaxNamedLambda(env *Env, form Value, magic int, data []Value) Value {
	sig := car(env, form)
	body := cdr(env, form)
	return newProcedure(env, car(env, sig), cdr(env, sig), body)
}

// (let ((v e)...) body...) and friends. magic selects the flavor:
// let evaluates every e in the enclosing environment, let* chains a frame
// per binding so each e sees its predecessors, letrec evaluates in the new
// frame so every e sees every binding.
func syntaxLet(env *Env, form Value, magic int, data []Value) Value {
	bindings := car(env, form)
	body := cdr(env, form)
	if IsException(bindings) || IsException(body) {
		return Exception
	}

	h := env.runtime().heap
	frame := h.pushFrame()
	defer h.popFrame()

	letEnv := newEnvExtended(env, "LET")
	frame.keep(Value{Tag: VTEnv, Data: letEnv})

	for !IsNil(bindings) {
		binding := car(env, bindings)
		bindings = cdr(env, bindings)
		if IsException(binding) || IsException(bindings) {
			return Exception
		}

		var bv [2]Value
		if !listExtract(env, binding, bv[:], nil) {
			return Exception
		}

		if magic == magicLetStar {
			letEnv = newEnvExtended(letEnv, "#LET*")
			frame.keep(Value{Tag: VTEnv, Data: letEnv})
		}

		evalEnv := env
		if magic != magicLet {
			evalEnv = letEnv
		}
		value := Eval(evalEnv, bv[1])
		if IsException(value) {
			return Exception
		}
		if !defineVar(letEnv, bv[0], value) {
			return Exception
		}
	}

	return evalList(letEnv, body)
}

// (begin forms...)
func syntaxBegin(env *Env, form Value, magic int, data []Value) Value {
	return evalList(env, form)
}

// toBool rejects non-boolean conditions with a type error.
func toBool(env *Env, val Value) (bool, bool) {
	if IsException(val) {
		return false, false
	}
	if val.Tag != VTBool {
		throwTypeError(env, "expected a boolean")
		return false, false
	}
	return val.Data.(bool), true
}
