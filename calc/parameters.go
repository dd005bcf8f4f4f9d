/*
 * calcvm - CalcParameters: the fixed-shape parameter record for one CALC
 * block, and the name -> field index used by named-operand lookups.
 *
 * Per the design notes, there is no dynamic attribute access here: every
 * canonical parameter name is resolved once, at package init, to a closure
 * over a concrete struct field (or array slot). A named-operand lookup at
 * run time is then an ordinary map probe, never a reflect.Value walk.
 */

package calc

import "fmt"

// connRef names another block's parameter, awaiting resolution.
type connRef struct {
	Compound  string
	Block     string
	Parameter string
}

// connection is a resolved forward reference to another block's parameter.
type connection struct {
	target    *Calc
	parameter string
}

// paramSlot is the tagged-union inner value of a Parameter<V>: either a
// direct typed value, a Signal (value + status), an UnparsedConnection, or
// a resolved Connection.
type paramSlot struct {
	kind ValueKind

	real    Real
	short   Short
	integer Integer
	long    Long
	boolean Bool
	str     String

	hasStatus bool
	status    Status

	unresolved *connRef
	resolved   *connection
}

func realSlot(v Real) paramSlot       { return paramSlot{kind: KindReal, real: v} }
func shortSlot(v Short) paramSlot     { return paramSlot{kind: KindShort, short: v} }
func integerSlot(v Integer) paramSlot { return paramSlot{kind: KindInteger, integer: v} }
func longSlot(v Long) paramSlot       { return paramSlot{kind: KindLong, long: v} }
func boolSlot(v Bool) paramSlot       { return paramSlot{kind: KindBool, boolean: v} }
func stringSlot(v String) paramSlot   { return paramSlot{kind: KindString, str: v} }

// signalSlot builds an output slot that additionally carries a Status word.
func signalSlot(s paramSlot) paramSlot {
	s.hasStatus = true
	return s
}

// float returns the slot's value as a float64, regardless of kind. It does
// not resolve connections; callers that may see a Connection must do so
// first (see (*VM).getOperand).
func (s paramSlot) float() float64 {
	switch s.kind {
	case KindReal:
		return s.real.Float()
	case KindShort:
		return s.short.Float()
	case KindInteger:
		return s.integer.Float()
	case KindLong:
		return s.long.Float()
	case KindBool:
		return s.boolean.Float()
	default:
		return 0
	}
}

// CalcParameters is the fixed-shape record of named parameters for a CALC
// block: housekeeping, scaled real I/O, bool/integer/long I/O, memory
// cells, and the fifty STEP strings.
type CalcParameters struct {
	Name    paramSlot
	Type    paramSlot
	Descrp  paramSlot
	Period  paramSlot
	Phase   paramSlot
	LoopID  paramSlot
	InitMA  paramSlot
	TimIni  paramSlot
	MA      paramSlot
	BlkSta  paramSlot
	PError  paramSlot
	STErr   paramSlot

	RI    [8]paramSlot
	HSCIn [8]paramSlot
	LSCIn [8]paramSlot
	DELTIn [8]paramSlot
	EIn   [8]paramSlot

	RO    [4]paramSlot
	HSCOn [4]paramSlot
	LSCOn [4]paramSlot
	EOn   [4]paramSlot

	BI [16]paramSlot
	BO [8]paramSlot

	II [2]paramSlot
	IO [6]paramSlot

	LI [2]paramSlot
	LO [2]paramSlot

	M [24]paramSlot

	Step [50]paramSlot
}

// NewCalcParameters returns a CalcParameters populated with the spec's
// documented field defaults.
func NewCalcParameters() *CalcParameters {
	p := &CalcParameters{
		Name:   stringSlot(""),
		Type:   integerSlot(18),
		Descrp: stringSlot(""),
		Period: shortSlot(1),
		Phase:  integerSlot(0),
		LoopID: stringSlot(""),
		InitMA: shortSlot(1),
		TimIni: shortSlot(0),
		MA:     boolSlot(false),
		BlkSta: signalSlot(integerSlot(0)),
		PError: signalSlot(integerSlot(0)),
		STErr:  signalSlot(integerSlot(0)),
	}
	for i := range p.RI {
		p.RI[i] = realSlot(0)
		p.HSCIn[i] = realSlot(100)
		p.LSCIn[i] = realSlot(0)
		p.DELTIn[i] = realSlot(1)
		p.EIn[i] = stringSlot("%")
	}
	for i := range p.RO {
		p.RO[i] = signalSlot(realSlot(0))
		p.HSCOn[i] = realSlot(100)
		p.LSCOn[i] = realSlot(0)
		p.EOn[i] = stringSlot("%")
	}
	for i := range p.BI {
		p.BI[i] = boolSlot(false)
	}
	for i := range p.BO {
		p.BO[i] = signalSlot(boolSlot(false))
	}
	for i := range p.II {
		p.II[i] = integerSlot(0)
	}
	for i := range p.IO {
		p.IO[i] = signalSlot(integerSlot(0))
	}
	for i := range p.LI {
		p.LI[i] = longSlot(0)
	}
	for i := range p.LO {
		p.LO[i] = signalSlot(longSlot(0))
	}
	for i := range p.M {
		p.M[i] = realSlot(0)
	}
	for i := range p.Step {
		p.Step[i] = stringSlot("")
	}
	return p
}

type fieldAccessor func(p *CalcParameters) *paramSlot

// paramFieldIndex maps a canonical parameter name to its field accessor,
// built once at package initialization.
var paramFieldIndex = map[string]fieldAccessor{}

func registerField(name string, fn fieldAccessor) {
	paramFieldIndex[name] = fn
}

func registerIndexed(prefix string, n int, fn func(p *CalcParameters, i int) *paramSlot) {
	for i := 0; i < n; i++ {
		idx := i
		name := fmt.Sprintf("%s%02d", prefix, idx+1)
		registerField(name, func(p *CalcParameters) *paramSlot { return fn(p, idx) })
	}
}

func init() {
	registerField("NAME", func(p *CalcParameters) *paramSlot { return &p.Name })
	registerField("TYPE", func(p *CalcParameters) *paramSlot { return &p.Type })
	registerField("DESCRP", func(p *CalcParameters) *paramSlot { return &p.Descrp })
	registerField("PERIOD", func(p *CalcParameters) *paramSlot { return &p.Period })
	registerField("PHASE", func(p *CalcParameters) *paramSlot { return &p.Phase })
	registerField("LOOPID", func(p *CalcParameters) *paramSlot { return &p.LoopID })
	registerField("INITMA", func(p *CalcParameters) *paramSlot { return &p.InitMA })
	registerField("TIMINI", func(p *CalcParameters) *paramSlot { return &p.TimIni })
	registerField("MA", func(p *CalcParameters) *paramSlot { return &p.MA })
	registerField("BLKSTA", func(p *CalcParameters) *paramSlot { return &p.BlkSta })
	registerField("PERROR", func(p *CalcParameters) *paramSlot { return &p.PError })
	registerField("STERR", func(p *CalcParameters) *paramSlot { return &p.STErr })

	registerIndexed("RI", 8, func(p *CalcParameters, i int) *paramSlot { return &p.RI[i] })
	registerIndexed("HSCI", 8, func(p *CalcParameters, i int) *paramSlot { return &p.HSCIn[i] })
	registerIndexed("LSCI", 8, func(p *CalcParameters, i int) *paramSlot { return &p.LSCIn[i] })
	registerIndexed("DELTI", 8, func(p *CalcParameters, i int) *paramSlot { return &p.DELTIn[i] })
	registerIndexed("EI", 8, func(p *CalcParameters, i int) *paramSlot { return &p.EIn[i] })

	registerIndexed("RO", 4, func(p *CalcParameters, i int) *paramSlot { return &p.RO[i] })
	registerIndexed("HSCO", 4, func(p *CalcParameters, i int) *paramSlot { return &p.HSCOn[i] })
	registerIndexed("LSCO", 4, func(p *CalcParameters, i int) *paramSlot { return &p.LSCOn[i] })
	registerIndexed("EO", 4, func(p *CalcParameters, i int) *paramSlot { return &p.EOn[i] })

	registerIndexed("BI", 16, func(p *CalcParameters, i int) *paramSlot { return &p.BI[i] })
	registerIndexed("BO", 8, func(p *CalcParameters, i int) *paramSlot { return &p.BO[i] })

	registerIndexed("II", 2, func(p *CalcParameters, i int) *paramSlot { return &p.II[i] })
	registerIndexed("IO", 6, func(p *CalcParameters, i int) *paramSlot { return &p.IO[i] })

	registerIndexed("LI", 2, func(p *CalcParameters, i int) *paramSlot { return &p.LI[i] })
	registerIndexed("LO", 2, func(p *CalcParameters, i int) *paramSlot { return &p.LO[i] })

	registerIndexed("M", 24, func(p *CalcParameters, i int) *paramSlot { return &p.M[i] })
	registerIndexed("STEP", 50, func(p *CalcParameters, i int) *paramSlot { return &p.Step[i] })
}

// field looks up a canonical parameter name, returning its slot pointer
// and whether the name is a field of CalcParameters at all.
func (p *CalcParameters) field(name string) (*paramSlot, bool) {
	fn, ok := paramFieldIndex[name]
	if !ok {
		return nil, false
	}
	return fn(p), true
}

// HasField reports whether name is a field of CalcParameters.
func HasField(name string) bool {
	_, ok := paramFieldIndex[name]
	return ok
}
