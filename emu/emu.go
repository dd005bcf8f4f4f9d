/*
 * calcvm - the Emulator: the set of live Calc blocks parsed from a dump
 * file, connection resolution, and the per-tick execution loop.
 *
 * Grounded on emu/core/core.go's core type: a single-threaded driver that
 * owns a collection of executable units and steps them once per tick, with
 * no locking because nothing but the driving goroutine ever touches them.
 * Connection resolution-on-first-tick mirrors that file's lazy
 * "resolve once, then run" structure.
 */

package emu

import (
	"fmt"

	"github.com/opendcs/calcvm/calc"
	"github.com/opendcs/calcvm/dump"
)

// Emulator owns every CALC block loaded from one dump file, keyed by
// "compound:block", and executes them in insertion order each tick.
type Emulator struct {
	order   []string
	blocks  map[string]*calc.Calc
	resolved bool
}

// NewEmulator returns an empty Emulator.
func NewEmulator() *Emulator {
	return &Emulator{blocks: map[string]*calc.Calc{}}
}

func key(compound, name string) string { return compound + ":" + name }

// AddBlock builds a Calc from a parsed dump.Block and registers it under
// its compound:name key, in the order blocks are added (the order the
// Emulator executes them in every tick).
func (e *Emulator) AddBlock(b dump.Block) error {
	k := key(b.Compound, b.Name)
	if t := b.Fields["TYPE"]; t != "CALC" {
		return fmt.Errorf("%s: unsupported block type %q", k, t)
	}
	if _, exists := e.blocks[k]; exists {
		return fmt.Errorf("duplicate block: %s", k)
	}

	params := calc.NewCalcParameters()
	var connRefs []fieldConnection
	for field, value := range b.Fields {
		if ref, ok := dump.ParseConnection(value); ok {
			connRefs = append(connRefs, fieldConnection{field: field, ref: ref})
			continue
		}
		// TYPE holds the block type name checked above, not the numeric
		// TYPE parameter, which keeps its default.
		if field == "TYPE" || !calc.HasField(field) {
			continue
		}
		if err := params.SetFromString(field, value); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	for _, fc := range connRefs {
		compound := fc.ref.Compound
		if compound == "" {
			compound = b.Compound
		}
		if err := params.SetUnresolvedConnection(fc.field, compound, fc.ref.Block, fc.ref.Parameter); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}

	c := calc.NewCalc(b.Compound, b.Name, params)
	e.blocks[k] = c
	e.order = append(e.order, k)
	return nil
}

type fieldConnection struct {
	field string
	ref   dump.ConnectionRef
}

// LoadFile parses path as a dump file and adds every block it contains.
func (e *Emulator) LoadFile(path string) error {
	blocks, err := dump.ParseFile(path)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		if err := e.AddBlock(b); err != nil {
			return err
		}
	}
	return nil
}

// Block returns the named block, or nil if it isn't loaded.
func (e *Emulator) Block(compound, name string) *calc.Calc {
	return e.blocks[key(compound, name)]
}

// Blocks returns every loaded block in insertion order.
func (e *Emulator) Blocks() []*calc.Calc {
	out := make([]*calc.Calc, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.blocks[k])
	}
	return out
}

// resolveConnections walks every block's unresolved connections exactly
// once, wiring each to its target block's parameter slot. A reference to a
// block that doesn't exist, or a field that fails to resolve against its
// target, is a fatal error: Tick propagates it to the caller rather than
// running with a connection silently left dangling.
func (e *Emulator) resolveConnections() error {
	for _, k := range e.order {
		c := e.blocks[k]
		for name, ref := range c.Params.UnresolvedConnections() {
			target := e.Block(ref.Compound, ref.Block)
			if target == nil {
				return fmt.Errorf("%s: unresolved connection %s -> %s:%s", k, name, ref.Compound, ref.Block)
			}
			if err := c.Params.Resolve(name, target, ref.Parameter); err != nil {
				return fmt.Errorf("%s: connection %s: %w", k, name, err)
			}
		}
	}
	return nil
}

// Tick runs exactly one execution cycle: on the first call it resolves
// every block's connections, failing hard if any connection cannot be
// resolved, then every tick it executes each block's program once, in
// load order.
func (e *Emulator) Tick() error {
	if !e.resolved {
		if err := e.resolveConnections(); err != nil {
			return err
		}
		e.resolved = true
	}
	for _, k := range e.order {
		e.blocks[k].Tick()
	}
	return nil
}
