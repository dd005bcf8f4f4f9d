/*
 * calcvm - Calc: one CALC block, wiring together its parameter record, its
 * compiled program, and the VM that executes it.
 */

package calc

// Calc is one instance of a CALC block: its dump-file identity, its
// parameter record, and the VM compiled from its STEP strings.
type Calc struct {
	Compound string
	Name     string

	Params *CalcParameters
	VM     *VM
}

// NewCalc parses params.Step into a program and returns a ready-to-run
// Calc. Syntax errors encountered while parsing are sticky: they are
// recorded once, here, and never retried on later ticks.
func NewCalc(compound, name string, params *CalcParameters) *Calc {
	c := &Calc{Compound: compound, Name: name, Params: params}

	params.MA = boolSlot(NewBool(params.InitMA.float()))

	program, syntaxErr := parseProgram(params)
	c.VM = NewVM(c, params, program, syntaxErr)
	if syntaxErr != ErrNone {
		c.VM.recordError(syntaxErr)
	}
	return c
}

// parseProgram tokenises and verifies every non-blank STEP string, in
// order, stopping at (and recording) the first syntax error encountered.
// A block with a syntax error keeps whatever steps verified cleanly before
// it; the remainder of the program is left blank (equivalent to NOP) so
// the VM never executes past a malformed step.
func parseProgram(params *CalcParameters) ([numSteps]*Instruction, ErrorKind) {
	var program [numSteps]*Instruction

	for i := 0; i < numSteps; i++ {
		raw := string(params.Step[i].str)
		mnemonic, tokens := tokenizeStep(raw)
		if mnemonic == "" {
			continue
		}

		operands := parseOperands(tokens)
		instr, errKind := verifyStep(mnemonic, operands)
		if errKind != ErrNone {
			return program, errKind
		}
		program[i] = &instr
	}

	return program, ErrNone
}

// Tick runs one execution cycle of this block's program, used by the
// Emulator once this block's inbound connections have been resolved.
func (c *Calc) Tick() {
	c.VM.Run()
}

// Errors returns the error list of the most recent cycle. A block with a
// syntax error never runs; its list holds that syntax error alone.
func (c *Calc) Errors() []ErrorEntry {
	return c.VM.Errors
}

// ClearErrors drops the runtime error list, keeping any sticky syntax
// error as the list's only entry (parseProgram runs exactly once).
func (c *Calc) ClearErrors() {
	if c.VM.SyntaxErr != ErrNone {
		c.VM.Errors = []ErrorEntry{{Step: 0, Kind: c.VM.SyntaxErr}}
		return
	}
	c.VM.Errors = nil
}
