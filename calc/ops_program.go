/*
 * calcvm - control-flow and status-setting opcodes.
 *
 * The conditional family (BIZ/BIF/BIT/BIN/BIP, SSN/SSP/SST/SSZ/SSI) tests
 * the top of stack without consuming it, via acc(), the same non-destructive
 * read the median/average reducers would use if chained after a branch.
 * BII is part of the packed-boolean family left runtime-inert (see
 * ops_bool.go).
 */

package calc

func branchIf(vm *VM, ops []Operand, cond func(v float64) bool) {
	top := vm.acc()
	if cond(top.Value) {
		vm.jump(int(ops[0].Literal))
	}
}

func setStatusIf(vm *VM, ops []Operand, cond func(v float64) bool) {
	top := vm.acc()
	if errKind := vm.setOperand(ops[0], boolFloat(cond(top.Value)), top.Status); errKind != ErrNone {
		vm.recordError(errKind)
	}
}

func init() {
	registerExec(opEnd, func(vm *VM, ops []Operand) { vm.Halt() })
	registerExec(opExit, func(vm *VM, ops []Operand) { vm.Halt() })
	registerExec(opNop, func(vm *VM, ops []Operand) {})

	registerExec(opGto, func(vm *VM, ops []Operand) { vm.jump(int(ops[0].Literal)) })

	registerExec(opBiz, func(vm *VM, ops []Operand) { branchIf(vm, ops, func(v float64) bool { return v == 0 }) })
	registerExec(opBif, func(vm *VM, ops []Operand) { branchIf(vm, ops, func(v float64) bool { return v == 0 }) })
	registerExec(opBit, func(vm *VM, ops []Operand) { branchIf(vm, ops, func(v float64) bool { return v != 0 }) })
	registerExec(opBin, func(vm *VM, ops []Operand) { branchIf(vm, ops, func(v float64) bool { return v < 0 }) })
	registerExec(opBip, func(vm *VM, ops []Operand) { branchIf(vm, ops, func(v float64) bool { return v >= 0 }) })

	registerExec(opGti, func(vm *VM, ops []Operand) {
		v, _ := vm.getOperand(ops[0])
		vm.jump(int(v))
	})

	registerExec(opSsn, func(vm *VM, ops []Operand) { setStatusIf(vm, ops, func(v float64) bool { return v < 0 }) })
	registerExec(opSsp, func(vm *VM, ops []Operand) { setStatusIf(vm, ops, func(v float64) bool { return v > 0 }) })
	registerExec(opSsz, func(vm *VM, ops []Operand) { setStatusIf(vm, ops, func(v float64) bool { return v == 0 }) })
	registerExec(opSst, func(vm *VM, ops []Operand) { setStatusIf(vm, ops, truthy) })
	registerExec(opSsi, func(vm *VM, ops []Operand) { setStatusIf(vm, ops, func(v float64) bool { return false }) })
}
