/*
 * calcvm - trigonometric opcodes. All angles are radians, matching the
 * stdlib math package's convention; the VM never converts to or from
 * degrees.
 */

package calc

import "math"

func init() {
	registerExec(opSin, func(vm *VM, ops []Operand) { unary(vm, math.Sin) })
	registerExec(opCos, func(vm *VM, ops []Operand) { unary(vm, math.Cos) })
	registerExec(opTan, func(vm *VM, ops []Operand) { unary(vm, math.Tan) })

	inUnitRange := func(v float64) bool { return v >= -1 && v <= 1 }
	registerExec(opAsin, func(vm *VM, ops []Operand) {
		guardedUnary(vm, inUnitRange, math.Asin, ErrAsin)
	})
	registerExec(opAcos, func(vm *VM, ops []Operand) {
		guardedUnary(vm, inUnitRange, math.Acos, ErrAcos)
	})
	registerExec(opAtan, func(vm *VM, ops []Operand) { unary(vm, math.Atan) })
}
