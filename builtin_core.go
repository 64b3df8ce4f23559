// builtin_core.go: arithmetic, comparison, predicate, and pair natives.
//
// Arithmetic is fixed-width int32 with two's-complement wrap-around on
// + - *; division and modulo by zero raise a type error. Comparisons are
// variadic chains: (< a b c) holds iff a<b and b<c. Zero-argument + and -
// both return 0.
package lisp

func registerCoreBuiltins(env *Env) {
	defineNative(env, "+", builtinSum, -1)
	defineNative(env, "-", builtinSubtract, -1)
	defineNative(env, "*", builtinMultiply, -1)
	defineNative(env, "/", builtinDivide, -1)
	defineNative(env, "%", builtinModulo, 2)

	defineNative(env, "<", compareChain(func(a, b int32) bool { return a < b }), -1)
	defineNative(env, ">", compareChain(func(a, b int32) bool { return a > b }), -1)
	defineNative(env, "<=", compareChain(func(a, b int32) bool { return a <= b }), -1)
	defineNative(env, ">=", compareChain(func(a, b int32) bool { return a >= b }), -1)
	defineNative(env, "=", compareChain(func(a, b int32) bool { return a == b }), -1)
	defineNative(env, "!=", compareChain(func(a, b int32) bool { return a != b }), -1)

	defineNative(env, "CONS", builtinCons, 2)
	defineNative(env, "CAR", builtinCar, 1)
	defineNative(env, "CDR", builtinCdr, 1)
	defineNative(env, "LIST", builtinList, -1)
	defineNative(env, "LENGTH", builtinLength, 1)
	defineNative(env, "APPEND", builtinAppend, -1)
	defineNative(env, "REVERSE", builtinReverse, 1)

	defineNative(env, "NULL?", builtinNullP, 1)
	defineNative(env, "PAIR?", builtinPairP, 1)
	defineNative(env, "ATOM?", builtinAtomP, 1)
	defineNative(env, "ZERO?", builtinZeroP, 1)
	defineNative(env, "NOT", builtinNot, 1)
	defineNative(env, "EQ?", builtinEqP, 2)
	defineNative(env, "EQUAL?", builtinEqualP, 2)
}

// toInt32 narrows a value to the integer it must be.
func toInt32(env *Env, val Value) (int32, bool) {
	if IsException(val) {
		return 0, false
	}
	if val.Tag != VTInt {
		throwTypeError(env, "expected an integer")
		return 0, false
	}
	return val.Data.(int32), true
}

func builtinSum(env *Env, args []Value) Value {
	var sum int32
	for _, a := range args {
		v, ok := toInt32(env, a)
		if !ok {
			return Exception
		}
		sum += v
	}
	return Int(sum)
}

func builtinSubtract(env *Env, args []Value) Value {
	if len(args) == 0 {
		return Int(0)
	}
	result, ok := toInt32(env, args[0])
	if !ok {
		return Exception
	}
	if len(args) == 1 {
		return Int(-result)
	}
	for _, a := range args[1:] {
		v, ok := toInt32(env, a)
		if !ok {
			return Exception
		}
		result -= v
	}
	return Int(result)
}

func builtinMultiply(env *Env, args []Value) Value {
	var product int32 = 1
	for _, a := range args {
		v, ok := toInt32(env, a)
		if !ok {
			return Exception
		}
		product *= v
	}
	return Int(product)
}

func builtinDivide(env *Env, args []Value) Value {
	if len(args) == 0 {
		return throwArityError(env, "/ requires at least one argument")
	}
	result, ok := toInt32(env, args[0])
	if !ok {
		return Exception
	}
	for _, a := range args[1:] {
		v, ok := toInt32(env, a)
		if !ok {
			return Exception
		}
		if v == 0 {
			return throwTypeError(env, "division by zero")
		}
		result /= v
	}
	return Int(result)
}

func builtinModulo(env *Env, args []Value) Value {
	a, ok := toInt32(env, args[0])
	if !ok {
		return Exception
	}
	b, ok := toInt32(env, args[1])
	if !ok {
		return Exception
	}
	if b == 0 {
		return throwTypeError(env, "division by zero")
	}
	return Int(a % b)
}

func compareChain(cmp func(a, b int32) bool) NativeFunc {
	return func(env *Env, args []Value) Value {
		for i := 0; i+1 < len(args); i++ {
			a, ok := toInt32(env, args[i])
			if !ok {
				return Exception
			}
			b, ok := toInt32(env, args[i+1])
			if !ok {
				return Exception
			}
			if !cmp(a, b) {
				return Bool(false)
			}
		}
		return Bool(true)
	}
}

func builtinCons(env *Env, args []Value) Value {
	return NewPair(env, args[0], args[1])
}

func builtinCar(env *Env, args []Value) Value {
	return car(env, args[0])
}

func builtinCdr(env *Env, args []Value) Value {
	return cdr(env, args[0])
}

func builtinList(env *Env, args []Value) Value {
	h := env.runtime().heap
	frame := h.pushFrame()
	defer h.popFrame()

	list := Nil
	for i := len(args) - 1; i >= 0; i-- {
		list = frame.keep(NewPair(env, args[i], list))
		if IsException(list) {
			return Exception
		}
	}
	return list
}

func builtinLength(env *Env, args []Value) Value {
	v := args[0]
	n := 0
	for IsPair(v) {
		n++
		v = v.Data.(*Pair).Cdr
	}
	if !IsNil(v) {
		return throwTypeError(env, "length: not a proper list")
	}
	return Int(int32(n))
}

func builtinAppend(env *Env, args []Value) Value {
	h := env.runtime().heap
	frame := h.pushFrame()
	defer h.popFrame()

	// All lists but the last are copied; the last is shared.
	var elems []Value
	last := Nil
	for i, a := range args {
		if i == len(args)-1 {
			last = a
			break
		}
		for v := a; !IsNil(v); {
			if !IsPair(v) {
				return throwTypeError(env, "append: not a proper list")
			}
			p := v.Data.(*Pair)
			elems = append(elems, p.Car)
			v = p.Cdr
		}
	}

	result := last
	for i := len(elems) - 1; i >= 0; i-- {
		result = frame.keep(NewPair(env, elems[i], result))
		if IsException(result) {
			return Exception
		}
	}
	return result
}

func builtinReverse(env *Env, args []Value) Value {
	h := env.runtime().heap
	frame := h.pushFrame()
	defer h.popFrame()

	result := Nil
	for v := args[0]; !IsNil(v); {
		if !IsPair(v) {
			return throwTypeError(env, "reverse: not a proper list")
		}
		p := v.Data.(*Pair)
		result = frame.keep(NewPair(env, p.Car, result))
		if IsException(result) {
			return Exception
		}
		v = p.Cdr
	}
	return result
}

func builtinNullP(env *Env, args []Value) Value {
	return Bool(IsNil(args[0]))
}

func builtinPairP(env *Env, args []Value) Value {
	return Bool(IsPair(args[0]))
}

func builtinAtomP(env *Env, args []Value) Value {
	return Bool(!IsPair(args[0]))
}

func builtinZeroP(env *Env, args []Value) Value {
	v, ok := toInt32(env, args[0])
	if !ok {
		return Exception
	}
	return Bool(v == 0)
}

func builtinNot(env *Env, args []Value) Value {
	b, ok := toBool(env, args[0])
	if !ok {
		return Exception
	}
	return Bool(!b)
}

func builtinEqP(env *Env, args []Value) Value {
	return Bool(eqv(args[0], args[1]))
}

func builtinEqualP(env *Env, args []Value) Value {
	return Bool(Equal(args[0], args[1]))
}
