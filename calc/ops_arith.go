/*
 * calcvm - arithmetic and statistical opcodes.
 *
 * With no operand, ADD/SUB/MUL/AVE/DIV/IDIV/IMOD/EXP pop the top two
 * elements and push one result, while MAX/MIN reduce across the whole
 * stack. With a single operand (a constant, a scaled real, or a memory
 * cell) they pop exactly one element and combine it with the operand's
 * value. The opcode table's verify predicates decide which operand shapes
 * each opcode takes: ADD/MUL/AVE/MAX/MIN accept a constant, a real or a
 * memory cell; SUB/DIV/EXP a real or a memory cell; IDIV a memory cell;
 * IMOD no operand at all.
 */

package calc

import "math"

func combineStatus(a, b Status) Status {
	if a.Bad() || b.Bad() {
		return a.SetBad(true)
	}
	return a
}

// reduceStack pops the entire stack (oldest first) and folds it left to
// right through fn, pushing the single result.
func reduceStack(vm *VM, identity float64, fn func(acc, v float64) float64) {
	elems := vm.popAll()
	if len(elems) == 0 {
		vm.push(identity, 0)
		return
	}
	acc := elems[0].Value
	st := elems[0].Status
	for _, e := range elems[1:] {
		acc = fn(acc, e.Value)
		st = combineStatus(st, e.Status)
	}
	vm.push(acc, st)
}

// dyadic pops exactly one element and combines it with op's resolved
// value via fn, pushing the result.
func dyadic(vm *VM, op Operand, fn func(a, b float64) float64) {
	top := vm.pop()
	opVal, opSt := vm.getOperand(op)
	vm.push(fn(top.Value, opVal), combineStatus(top.Status, opSt))
}

// binaryTop pops the top two elements (b on top, a below) and pushes
// fn(a, b).
func binaryTop(vm *VM, fn func(a, b float64) float64) {
	pair := vm.popMany(2)
	a, b := pair[0], pair[1]
	vm.push(fn(a.Value, b.Value), combineStatus(a.Status, b.Status))
}

func unary(vm *VM, fn func(v float64) float64) {
	top := vm.pop()
	vm.push(fn(top.Value), top.Status)
}

// guardedUnary applies fn only when ok(v) holds; otherwise it pushes zero
// and records kind, matching the "domain error pushes 0, never aborts"
// rule shared by SQRT/LN/LOG/ASIN/ACOS.
func guardedUnary(vm *VM, ok func(v float64) bool, fn func(v float64) float64, kind ErrorKind) {
	top := vm.pop()
	if !ok(top.Value) {
		vm.recordError(kind)
		vm.push(0, top.Status)
		return
	}
	vm.push(fn(top.Value), top.Status)
}

func init() {
	registerExec(opAbs, func(vm *VM, ops []Operand) { unary(vm, math.Abs) })
	registerExec(opChs, func(vm *VM, ops []Operand) { unary(vm, func(v float64) float64 { return -v }) })
	registerExec(opRnd, func(vm *VM, ops []Operand) { unary(vm, math.Round) })
	registerExec(opTrc, func(vm *VM, ops []Operand) { unary(vm, math.Trunc) })
	registerExec(opSqr, func(vm *VM, ops []Operand) { unary(vm, func(v float64) float64 { return v * v }) })

	registerExec(opSqrt, func(vm *VM, ops []Operand) {
		guardedUnary(vm, func(v float64) bool { return v >= 0 }, math.Sqrt, ErrSqrt)
	})
	registerExec(opLn, func(vm *VM, ops []Operand) {
		guardedUnary(vm, func(v float64) bool { return v > 0 }, math.Log, ErrLn)
	})
	registerExec(opLog, func(vm *VM, ops []Operand) {
		guardedUnary(vm, func(v float64) bool { return v > 0 }, math.Log10, ErrLog)
	})
	registerExec(opAln, func(vm *VM, ops []Operand) {
		guardedUnary(vm, func(v float64) bool { return v < 700 }, math.Exp, ErrExp)
	})
	registerExec(opAlog, func(vm *VM, ops []Operand) {
		guardedUnary(vm, func(v float64) bool { return v < 300 }, func(v float64) float64 { return math.Pow(10, v) }, ErrExp)
	})

	add := func(a, b float64) float64 { return a + b }
	registerExec(opAdd, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			binaryTop(vm, add)
			return
		}
		dyadic(vm, ops[0], add)
	})

	registerExec(opSub, func(vm *VM, ops []Operand) {
		sub := func(a, b float64) float64 { return a - b }
		if len(ops) == 0 {
			binaryTop(vm, sub)
			return
		}
		dyadic(vm, ops[0], sub)
	})

	mul := func(a, b float64) float64 { return a * b }
	registerExec(opMul, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			binaryTop(vm, mul)
			return
		}
		dyadic(vm, ops[0], mul)
	})

	registerExec(opAve, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			binaryTop(vm, func(a, b float64) float64 { return (a + b) / 2 })
			return
		}
		top := vm.pop()
		opVal, opSt := vm.getOperand(ops[0])
		vm.push((top.Value+opVal)/2, combineStatus(top.Status, opSt))
	})

	registerExec(opMax, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			reduceStack(vm, math.Inf(-1), math.Max)
			return
		}
		dyadic(vm, ops[0], math.Max)
	})
	registerExec(opMin, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			reduceStack(vm, math.Inf(1), math.Min)
			return
		}
		dyadic(vm, ops[0], math.Min)
	})

	safeDiv := func(vm *VM) func(a, b float64) float64 {
		return func(a, b float64) float64 {
			if b == 0 {
				vm.recordError(ErrDiv)
				return 0
			}
			return a / b
		}
	}
	registerExec(opDiv, func(vm *VM, ops []Operand) {
		if len(ops) == 0 {
			binaryTop(vm, safeDiv(vm))
			return
		}
		dyadic(vm, ops[0], safeDiv(vm))
	})

	registerExec(opIdiv, func(vm *VM, ops []Operand) {
		idiv := func(a, b float64) float64 {
			ib := int64(b)
			if ib == 0 {
				vm.recordError(ErrDiv)
				return 0
			}
			return float64(int64(a) / ib)
		}
		if len(ops) == 0 {
			binaryTop(vm, idiv)
			return
		}
		dyadic(vm, ops[0], idiv)
	})

	registerExec(opImod, func(vm *VM, ops []Operand) {
		binaryTop(vm, func(a, b float64) float64 {
			ib := int64(b)
			if ib == 0 {
				vm.recordError(ErrDiv)
				return 0
			}
			return float64(int64(a) % ib)
		})
	})

	registerExec(opExp, func(vm *VM, ops []Operand) {
		pow := func(base, exp float64) float64 { return math.Pow(base, exp) }
		if len(ops) == 0 {
			binaryTop(vm, pow)
			return
		}
		dyadic(vm, ops[0], pow)
	})

	registerExec(opInc, func(vm *VM, ops []Operand) { incDec(vm, ops, 1) })
	registerExec(opDec, func(vm *VM, ops []Operand) { incDec(vm, ops, -1) })

	registerExec(opMedn, func(vm *VM, ops []Operand) {
		elems := vm.popAll()
		if len(elems) == 0 {
			vm.push(0, 0)
			return
		}
		vals := make([]float64, len(elems))
		for i, e := range elems {
			vals[i] = e.Value
		}
		for i := 1; i < len(vals); i++ {
			for j := i; j > 0 && vals[j-1] > vals[j]; j-- {
				vals[j-1], vals[j] = vals[j], vals[j-1]
			}
		}
		mid := len(vals) / 2
		if len(vals)%2 == 1 {
			vm.push(vals[mid], 0)
		} else {
			vm.push((vals[mid-1]+vals[mid])/2, 0)
		}
	})

	registerExec(opRand, func(vm *VM, ops []Operand) { vm.push(vm.randFloat(), 0) })

	registerExec(opRang, func(vm *VM, ops []Operand) {
		pair := vm.popMany(2)
		lo, hi := pair[0].Value, pair[1].Value
		if lo > hi {
			lo, hi = hi, lo
		}
		vm.push(lo+vm.randFloat()*(hi-lo), 0)
	})

	registerExec(opSeed, func(vm *VM, ops []Operand) {
		top := vm.pop()
		if top.Value < 0 || top.Value > 524287 {
			return
		}
		vm.seedRNG(int64(top.Value))
	})
}

// incDec implements INC/DEC: a bare form bumps top-of-stack by sign, a
// constant operand bumps top-of-stack by sign*constant, and a named
// memory/output operand is bumped in place by sign, bypassing the stack.
func incDec(vm *VM, ops []Operand, sign float64) {
	if len(ops) == 1 && !ops[0].IsLiteral {
		cur, st := vm.getOperand(ops[0])
		if errKind := vm.setOperand(ops[0], cur+sign, st); errKind != ErrNone {
			vm.recordError(errKind)
		}
		return
	}

	amount := sign
	if len(ops) == 1 && ops[0].IsLiteral {
		amount = sign * float64(ops[0].Literal)
	}
	top := vm.pop()
	vm.push(top.Value+amount, top.Status)
}
