/*
 * calcvm - binding a CalcParameters record to dump-file text: typed value
 * assignment by name, and UnparsedConnection -> Connection resolution.
 */

package calc

import (
	"fmt"
	"strconv"
	"strings"
)

// SetFromString parses value according to the named field's kind and
// stores it, matching the "KEY = VALUE" record lines a dump file carries.
func (p *CalcParameters) SetFromString(name, value string) error {
	slot, ok := p.field(name)
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}

	switch slot.kind {
	case KindString:
		slot.str = String(value)
	case KindBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		slot.boolean = NewBool(boolFloat(v))
	default:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch slot.kind {
		case KindReal:
			slot.real = NewReal(v)
		case KindShort:
			slot.short = NewShort(v)
		case KindInteger:
			slot.integer = NewInteger(v)
		case KindLong:
			slot.long = NewLong(v)
		}
	}
	return nil
}

// ValueOf returns the named field's current value as a float64, the
// dump-file-facing counterpart to SetFromString. It does not follow
// connections: a connected field reads the value held in its own slot.
func (p *CalcParameters) ValueOf(name string) (float64, bool) {
	slot, ok := p.field(name)
	if !ok {
		return 0, false
	}
	return slot.float(), true
}

// SetUnresolvedConnection marks the named field as awaiting resolution to
// another block's parameter, the dump-file "[compound]:block.parameter"
// form. compound == "" means the current compound.
func (p *CalcParameters) SetUnresolvedConnection(name, compound, block, parameter string) error {
	slot, ok := p.field(name)
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	slot.unresolved = &connRef{Compound: compound, Block: block, Parameter: strings.ToUpper(parameter)}
	return nil
}

// UnresolvedConnections returns every field name on p still awaiting
// resolution, for the Emulator's first-tick resolution pass.
func (p *CalcParameters) UnresolvedConnections() map[string]connRef {
	out := map[string]connRef{}
	for name, accessor := range paramFieldIndex {
		slot := accessor(p)
		if slot.unresolved != nil {
			out[name] = *slot.unresolved
		}
	}
	return out
}

// Resolve finalizes the named field's connection to target's named
// parameter, clearing the unresolved reference.
func (p *CalcParameters) Resolve(name string, target *Calc, parameter string) error {
	slot, ok := p.field(name)
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	slot.resolved = &connection{target: target, parameter: parameter}
	slot.unresolved = nil
	return nil
}
