package calc

import "testing"

func stepProgram(t *testing.T, steps map[int]string) *Calc {
	t.Helper()
	params := NewCalcParameters()
	for i, s := range steps {
		params.Step[i-1] = stringSlot(String(s))
	}
	return NewCalc("", "t", params)
}

func TestParseDeterministic(t *testing.T) {
	c1 := stepProgram(t, map[int]string{1: "ADD 5", 2: "END"})
	c2 := stepProgram(t, map[int]string{1: "ADD 5", 2: "END"})

	if c1.VM.SyntaxErr != ErrNone || c2.VM.SyntaxErr != ErrNone {
		t.Fatalf("unexpected syntax error: %v %v", c1.VM.SyntaxErr, c2.VM.SyntaxErr)
	}
	if c1.VM.Program[0].Name != c2.VM.Program[0].Name {
		t.Fatalf("parse was not deterministic")
	}
}

func TestOpcodeLookupIsCaseSensitive(t *testing.T) {
	c := stepProgram(t, map[int]string{1: "add 1 2"})
	if c.VM.SyntaxErr != ErrInvalidOpcode {
		t.Fatalf("expected a lowercase mnemonic to be rejected as ErrInvalidOpcode, got %v", c.VM.SyntaxErr)
	}
}

func TestSyntaxErrorIsSticky(t *testing.T) {
	c := stepProgram(t, map[int]string{1: "FROBNICATE 5"})
	if c.VM.SyntaxErr != ErrInvalidOpcode {
		t.Fatalf("expected ErrInvalidOpcode, got %v", c.VM.SyntaxErr)
	}
	if len(c.VM.Errors) != 1 || c.VM.Errors[0].Kind != ErrInvalidOpcode {
		t.Fatalf("syntax error was not recorded: %+v", c.VM.Errors)
	}

	c.Tick()
	if len(c.VM.Errors) != 1 {
		t.Fatalf("a second tick must not append further errors, got %+v", c.VM.Errors)
	}
}

func TestStackUnderflowReadsZero(t *testing.T) {
	vm := NewVM(nil, NewCalcParameters(), [numSteps]*Instruction{}, ErrNone)
	top := vm.pop()
	if top.Value != 0 {
		t.Fatalf("expected 0 on underflow, got %v", top.Value)
	}
	if len(vm.Errors) != 1 || vm.Errors[0].Kind != ErrStackUnderflow {
		t.Fatalf("expected STACK_UNDERFLOW recorded, got %+v", vm.Errors)
	}
}

func TestStackOverflowSlidesWindow(t *testing.T) {
	vm := NewVM(nil, NewCalcParameters(), [numSteps]*Instruction{}, ErrNone)
	for i := 0; i < stackDepth; i++ {
		vm.push(float64(i), 0)
	}
	vm.push(999, 0)
	if len(vm.stack) != stackDepth {
		t.Fatalf("expected stack capped at %d, got %d", stackDepth, len(vm.stack))
	}
	if top := vm.stack[len(vm.stack)-1]; top.Value != 999 {
		t.Fatalf("expected the newest push to be kept, got %v", top.Value)
	}
	if oldest := vm.stack[0]; oldest.Value != 1 {
		t.Fatalf("expected the oldest element (0) to have been dropped, got %v", oldest.Value)
	}
	found := false
	for _, e := range vm.Errors {
		if e.Kind == ErrStackOverflow {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected STACK_OVERFLOW recorded, got %+v", vm.Errors)
	}
}

func TestAddPop1Form(t *testing.T) {
	c := stepProgram(t, map[int]string{1: "ADD M01", 2: "STM M02", 3: "END"})
	c.Params.M[0] = realSlot(NewReal(10))
	c.VM.push(4, 0)
	c.VM.Run()

	if got := c.Params.M[1].float(); got != 14 {
		t.Fatalf("expected 14, got %v", got)
	}
}

func TestAddNoOperandPopsTopTwo(t *testing.T) {
	c := stepProgram(t, map[int]string{1: "ADD", 2: "STM M01", 3: "END"})
	c.VM.push(1, 0)
	c.VM.push(2, 0)
	c.VM.push(3, 0)
	c.VM.Run()

	if got := c.Params.M[0].float(); got != 5 {
		t.Fatalf("expected ADD with no operand to pop only the top two (2+3=5), got %v", got)
	}
	if len(c.VM.stack) != 2 {
		t.Fatalf("expected the bottom element (1) to remain on the stack, got depth %d", len(c.VM.stack))
	}
}

func TestDivByZeroGuard(t *testing.T) {
	c := stepProgram(t, map[int]string{1: "DIV", 2: "STM M01", 3: "END"})
	c.VM.push(5, 0)
	c.VM.push(0, 0)
	c.VM.Run()

	if got := c.Params.M[0].float(); got != 0 {
		t.Fatalf("expected 0 on divide-by-zero, got %v", got)
	}
	found := false
	for _, e := range c.VM.Errors {
		if e.Kind == ErrDiv {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DIV error recorded, got %+v", c.VM.Errors)
	}
}

func TestConditionalBranch(t *testing.T) {
	c := stepProgram(t, map[int]string{
		1: "BIZ 4",
		2: "CST",
		3: "STM M01",
		4: "END",
	})
	c.Params.M[0] = realSlot(NewReal(99))
	c.VM.push(0, 0)
	c.VM.Run()

	if got := c.Params.M[0].float(); got != 99 {
		t.Fatalf("branch should have skipped the STM, M01 = %v", got)
	}
}

func TestHalfPrecisionVisible(t *testing.T) {
	r := NewReal(0.1)
	if float64(r) == 0.1 {
		t.Fatalf("expected binary16 rounding to be visible, got exact 0.1")
	}
}

func TestHalfPrecisionIdempotent(t *testing.T) {
	r := NewReal(123.456)
	if NewReal(float64(r)) != r {
		t.Fatalf("re-rounding an already-rounded Real must be a no-op")
	}
}

func TestBipBranchesOnZero(t *testing.T) {
	c := stepProgram(t, map[int]string{
		1: "BIP 4",
		2: "CST",
		3: "STM M01",
		4: "END",
	})
	c.Params.M[0] = realSlot(NewReal(99))
	c.VM.push(0, 0)
	c.VM.Run()

	if got := c.Params.M[0].float(); got != 99 {
		t.Fatalf("BIP must branch on acc == 0 (acc >= 0), M01 = %v", got)
	}
}

func TestSeedMakesRandDeterministic(t *testing.T) {
	c1 := stepProgram(t, map[int]string{1: "SEED", 2: "RAND", 3: "STM M01", 4: "END"})
	c1.VM.push(7, 0)
	c1.VM.Run()

	c2 := stepProgram(t, map[int]string{1: "SEED", 2: "RAND", 3: "STM M01", 4: "END"})
	c2.VM.push(7, 0)
	c2.VM.Run()

	v1 := c1.Params.M[0].float()
	v2 := c2.Params.M[0].float()
	if v1 != v2 {
		t.Fatalf("expected the same seed to reproduce the same draw, got %v and %v", v1, v2)
	}
}

func TestScaledRealClamp(t *testing.T) {
	params := NewCalcParameters()
	params.HSCOn[0] = realSlot(100)
	params.LSCOn[0] = realSlot(0)
	params.Step[0] = stringSlot("OUT RO01")
	params.Step[1] = stringSlot("END")
	c := NewCalc("", "t", params)
	c.VM.push(150, 0)
	c.VM.Run()

	if got := c.Params.RO[0].float(); got != 100 {
		t.Fatalf("expected clamp to HSCO1=100, got %v", got)
	}
	if !c.Params.RO[0].status.LimHigh() {
		t.Fatalf("expected LimHigh status bit set")
	}
}

func TestMAGatingBlocksOutputWrite(t *testing.T) {
	params := NewCalcParameters()
	params.InitMA = shortSlot(0)
	params.Step[0] = stringSlot("OUT RO01")
	params.Step[1] = stringSlot("END")
	c := NewCalc("", "t", params)
	c.VM.push(42, 0)
	c.VM.Run()

	if got := c.Params.RO[0].float(); got != 0 {
		t.Fatalf("manual-gated write (INITMA=0) should not have taken effect, got %v", got)
	}
}

func TestMAAutomaticAllowsOutputWrite(t *testing.T) {
	params := NewCalcParameters()
	params.InitMA = shortSlot(1)
	params.Step[0] = stringSlot("OUT RO01")
	params.Step[1] = stringSlot("END")
	c := NewCalc("", "t", params)
	c.VM.push(42, 0)
	c.VM.Run()

	if got := c.Params.RO[0].float(); got != 42 {
		t.Fatalf("expected the write to take effect with INITMA=1, got %v", got)
	}
}
