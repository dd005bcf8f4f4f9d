package graph

import (
	"strings"
	"testing"

	"github.com/opendcs/calcvm/calc"
)

func program(t *testing.T, steps map[int]string) [calc.NumSteps]*calc.Instruction {
	t.Helper()
	params := calc.NewCalcParameters()
	for i, s := range steps {
		name := stepName(i)
		if err := params.SetFromString(name, s); err != nil {
			t.Fatalf("SetFromString(%s): %v", name, err)
		}
	}
	c := calc.NewCalc("", "t", params)
	if c.VM.SyntaxErr != calc.ErrNone {
		t.Fatalf("unexpected syntax error: %v", c.VM.SyntaxErr)
	}
	return c.VM.Program
}

func stepName(i int) string {
	const digits = "0123456789"
	tens, ones := i/10, i%10
	return "STEP" + string(digits[tens]) + string(digits[ones])
}

func TestExtractStraightLineMergesTerminationIntoEnd(t *testing.T) {
	p := program(t, map[int]string{1: "ADD 1", 2: "STM M01", 3: "END"})
	g, errs := Extract(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(g.Nodes) != 1 {
		t.Fatalf("expected the two ordinary steps to coalesce into one group, got %d: %+v", len(g.Nodes), g.Nodes)
	}
	n := g.Nodes[0]
	if n.Kind != NodeGroup || n.Start != 1 || n.End != 2 {
		t.Fatalf("unexpected node: %+v", n)
	}
}

func TestExtractConditionalIsItsOwnNode(t *testing.T) {
	p := program(t, map[int]string{1: "BIZ 3", 2: "NOP", 3: "END"})
	g, errs := Extract(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected a Conditional node and a Group node, got %d: %+v", len(g.Nodes), g.Nodes)
	}
	cond := g.Nodes[0]
	if cond.Kind != NodeConditional || cond.Start != 1 || cond.End != 1 {
		t.Fatalf("expected step 1 to be its own Conditional node, got %+v", cond)
	}
	if cond.Target != endStep {
		t.Fatalf("expected the branch to a termination step to be rewritten to the synthetic end step, got %d", cond.Target)
	}
}

func TestExtractGotoTargetIsJoinPoint(t *testing.T) {
	// Step 1 jumps straight to step 3; step 2 is an orphaned fallthrough
	// step that must NOT be coalesced with step 3, because step 3 is
	// claimed as a join point before the main loop ever reaches step 2.
	p := program(t, map[int]string{1: "GTO 3", 2: "NOP", 3: "STM M01", 4: "END"})
	g, errs := Extract(p)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(g.Nodes) != 3 {
		t.Fatalf("expected Goto(1), Group(2), Group(3) as distinct nodes, got %d: %+v", len(g.Nodes), g.Nodes)
	}
	if g.Nodes[0].Kind != NodeGoto || g.Nodes[0].Target != 3 {
		t.Fatalf("unexpected goto node: %+v", g.Nodes[0])
	}
	if g.Nodes[1].Start != 2 || g.Nodes[1].End != 2 {
		t.Fatalf("expected step 2 to be its own group, not merged with step 3: %+v", g.Nodes[1])
	}
	if g.Nodes[2].Start != 3 || g.Nodes[2].End != 3 {
		t.Fatalf("expected step 3 to be its own group (the join point): %+v", g.Nodes[2])
	}
}

func TestExtractGTIAbortsWithBreakingInstructionError(t *testing.T) {
	p := program(t, map[int]string{1: "GTI M01", 2: "END"})
	g, errs := Extract(p)
	if g != nil {
		t.Fatalf("expected no graph to be built when GTI is present, got %+v", g)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one BREAKING_INSTRUCTION error, got %v", errs)
	}
}

func TestWriteDOTContainsStartAndEnd(t *testing.T) {
	p := program(t, map[int]string{1: "BIZ 3", 2: "NOP", 3: "END"})
	g, _ := Extract(p)

	var buf strings.Builder
	if err := WriteDOT(&buf, "t", g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"digraph", "start", "end", "shape=diamond"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected DOT output to contain %q, got:\n%s", want, out)
		}
	}
}
