/*
 * calcvm - stack and memory-cell opcodes.
 */

package calc

import "fmt"

func init() {
	registerExec(opPop, func(vm *VM, ops []Operand) { vm.pop() })
	registerExec(opCla, func(vm *VM, ops []Operand) { vm.clear() })

	registerExec(opCst, func(vm *VM, ops []Operand) {
		top := vm.pop()
		vm.push(top.Value, 0)
	})

	registerExec(opDup, func(vm *VM, ops []Operand) {
		top := vm.acc()
		vm.push(top.Value, top.Status)
	})

	registerExec(opSwp, func(vm *VM, ops []Operand) {
		pair := vm.popMany(2)
		vm.push(pair[1].Value, pair[1].Status)
		vm.push(pair[0].Value, pair[0].Status)
	})

	registerExec(opStm, func(vm *VM, ops []Operand) {
		top := vm.acc()
		if errKind := vm.setOperand(ops[0], top.Value, top.Status); errKind != ErrNone {
			vm.recordError(errKind)
		}
	})

	registerExec(opLac, func(vm *VM, ops []Operand) {
		v, st := vm.getOperand(ops[0])
		vm.push(v, st)
	})

	registerExec(opClm, func(vm *VM, ops []Operand) {
		if errKind := vm.setOperand(ops[0], 0, 0); errKind != ErrNone {
			vm.recordError(errKind)
		}
	})

	registerExec(opRcl, func(vm *VM, ops []Operand) {
		v, st := vm.getOperand(ops[0])
		vm.push(v, st)
	})

	registerExec(opStmi, func(vm *VM, ops []Operand) {
		idx := memoryIndex(vm, ops[0])
		top := vm.acc()
		if errKind := vm.setOperand(Operand{Prefix: "M", Suffix: memorySuffix(idx)}, top.Value, top.Status); errKind != ErrNone {
			vm.recordError(errKind)
		}
	})

	registerExec(opLaci, func(vm *VM, ops []Operand) {
		idx := memoryIndex(vm, ops[0])
		v, st := vm.getOperand(Operand{Prefix: "M", Suffix: memorySuffix(idx)})
		vm.push(v, st)
	})
}

// memoryIndex resolves the indirect cell index held by the named M
// operand, clamped into the valid [0, len(M)-1] range and recording INDEX
// on an out-of-range value before clamping.
func memoryIndex(vm *VM, op Operand) int {
	v, _ := vm.getOperand(op)
	idx := int(v)
	if idx < 0 || idx > len(vm.Params.M)-1 {
		vm.recordError(ErrIndex)
		if idx < 0 {
			idx = 0
		} else {
			idx = len(vm.Params.M) - 1
		}
	}
	return idx
}

func memorySuffix(idx int) string {
	return fmt.Sprintf("%02d", idx+1)
}
