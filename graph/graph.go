/*
 * calcvm - logic-flow graph extraction: classifies a CALC program's steps
 * into straight-line groups, conditional/goto branch nodes, and a synthetic
 * Start/End pair, then renders the result as a Graphviz DOT document.
 */

package graph

import (
	"fmt"
	"sort"

	"github.com/opendcs/calcvm/calc"
)

// StepKind classifies how a single step can transfer control.
type StepKind int

const (
	KindBlank StepKind = iota
	KindFallthrough
	KindUnconditional
	KindConditional
	KindDynamic
	KindTermination
)

var conditionalMnemonics = map[string]bool{
	"BIZ": true, "BIF": true, "BIT": true, "BIN": true, "BIP": true, "BII": true,
}

func classify(instr *calc.Instruction) StepKind {
	if instr == nil {
		return KindBlank
	}
	switch instr.Name {
	case "GTO":
		return KindUnconditional
	case "GTI":
		return KindDynamic
	case "END", "EXIT":
		return KindTermination
	default:
		if conditionalMnemonics[instr.Name] {
			return KindConditional
		}
		return KindFallthrough
	}
}

// endStep is the synthetic step number the graph rewrites "falls off the
// last step without halting", "branches to a termination step", and
// "steps with no node of their own" control flow to.
const endStep = calc.EndStep

// GraphingError reports a structural problem found while extracting the
// graph. A GTI step (a BREAKING_INSTRUCTION, per the step classes above)
// makes the whole program ungraphable: Extract returns this error alone
// and no Graph.
type GraphingError struct {
	Step    int
	Message string
}

func (e *GraphingError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}

// NodeKind is the shape a Node is rendered as.
type NodeKind int

const (
	// NodeGroup is a maximal run of straight-line steps, rendered as a box.
	NodeGroup NodeKind = iota
	// NodeConditional is one of BIF/BIZ/BII/BIN/BIP/BIT, rendered as a diamond.
	NodeConditional
	// NodeGoto is a GTO step, rendered as a box with a single outgoing edge.
	NodeGoto
)

// Node is one element of the extracted graph: either a coalesced run of
// ordinary steps (Start == first step, End == last step of the run) or a
// single branch step (Start == End == that step).
type Node struct {
	Kind     NodeKind
	Start    int
	End      int
	Mnemonic string // the branch opcode, "" for a Group
	Target   int    // branch target step for Conditional/Goto, 0 otherwise
}

// Graph is the extracted logic-flow graph of one CALC program, in
// ascending step order.
type Graph struct {
	Nodes []Node
}

// Extract walks program in step order, coalescing ordinary steps into
// Groups and building a dedicated node for every branch step, extracting a
// branch's target into its own Group early if nothing has visited it yet
// (making it a join point distinct from whatever precedes it). A GTI
// anywhere in the program aborts extraction entirely: GTI is a
// BREAKING_INSTRUCTION, and the spec requires the graph not be built at
// all rather than rendered with a guessed edge.
func Extract(program [calc.NumSteps]*calc.Instruction) (*Graph, []error) {
	visited := make([]bool, calc.NumSteps+1) // 1-indexed; index 0 unused
	var nodes []Node
	var errs []error

	var buildGroup func(start int) int
	buildGroup = func(start int) int {
		end := start
		for end <= calc.NumSteps && !visited[end] {
			k := classify(program[end-1])
			if k == KindTermination || k == KindConditional || k == KindUnconditional || k == KindDynamic {
				break
			}
			visited[end] = true
			end++
		}
		return end - 1
	}

	var processBranch func(step int)
	var ensureGroup func(step int)

	ensureGroup = func(step int) {
		if step > calc.NumSteps || visited[step] {
			return
		}
		k := classify(program[step-1])
		switch k {
		case KindTermination, KindDynamic:
			// Left unvisited: a termination step merges into the synthetic
			// End with no node of its own; a GTI step is picked up (and
			// aborts extraction) when the main loop reaches it.
			return
		case KindConditional, KindUnconditional:
			processBranch(step)
		default:
			end := buildGroup(step)
			nodes = append(nodes, Node{Kind: NodeGroup, Start: step, End: end})
		}
	}

	processBranch = func(step int) {
		instr := program[step-1]
		visited[step] = true

		target := int(instr.Operands[0].Literal)
		if target < 1 || target > calc.NumSteps {
			errs = append(errs, &GraphingError{Step: step, Message: "jump target out of range"})
			target = endStep
		} else if classify(program[target-1]) == KindTermination {
			target = endStep
		}

		kind := NodeConditional
		if instr.Name == "GTO" {
			kind = NodeGoto
		}
		nodes = append(nodes, Node{Kind: kind, Start: step, End: step, Mnemonic: instr.Name, Target: target})

		if target != endStep {
			ensureGroup(target)
		}
	}

	for i := 1; i <= calc.NumSteps; i++ {
		if visited[i] {
			continue
		}
		switch classify(program[i-1]) {
		case KindDynamic:
			return nil, []error{&GraphingError{Step: i, Message: "GTI is a breaking instruction: graph cannot be constructed"}}
		case KindTermination, KindBlank:
			visited[i] = true
		case KindConditional, KindUnconditional:
			processBranch(i)
		default:
			end := buildGroup(i)
			nodes = append(nodes, Node{Kind: NodeGroup, Start: i, End: end})
		}
	}

	sort.Slice(nodes, func(a, b int) bool { return nodes[a].Start < nodes[b].Start })
	return &Graph{Nodes: nodes}, errs
}

// nodeAt returns the node covering the given 1-based step number, or nil if
// step has no node of its own (out of range, or a termination step merged
// into the synthetic End).
func (g *Graph) nodeAt(step int) *Node {
	for i := range g.Nodes {
		if step >= g.Nodes[i].Start && step <= g.Nodes[i].End {
			return &g.Nodes[i]
		}
	}
	return nil
}

func nodeName(n Node) string {
	if n.Kind == NodeGroup {
		return fmt.Sprintf("step_%d_%d", n.Start, n.End)
	}
	return fmt.Sprintf("step_%d", n.Start)
}

func nodeLabel(n Node) string {
	switch n.Kind {
	case NodeGroup:
		if n.Start == n.End {
			return fmt.Sprintf("%d", n.Start)
		}
		return fmt.Sprintf("%d-%d", n.Start, n.End)
	default:
		return fmt.Sprintf("%d: %s", n.Start, n.Mnemonic)
	}
}
