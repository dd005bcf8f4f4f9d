/*
 * calcvm - Packed status word for CALC parameters.
 *
 * Copyright (c) 2026, OpenDCS Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 */

package calc

// Status is a 16-bit packed status word attached to output Signals.
// Bits 0..7 are reserved for data/override-mode fields not interpreted by
// the CALC opcodes; they are preserved verbatim across copies.
type Status uint16

const (
	statusBad           = 8
	statusSecureRelease = 9
	statusAck           = 10
	statusOOS           = 11
	statusShadow        = 12
	statusLimHigh       = 13
	statusLimLow        = 14
	statusPropagated    = 15
)

func (s Status) bit(pos uint) bool {
	return s&(1<<pos) != 0
}

func (s Status) withBit(pos uint, v bool) Status {
	if v {
		return s | (1 << pos)
	}
	return s &^ (1 << pos)
}

func (s Status) Bad() bool            { return s.bit(statusBad) }
func (s Status) SecureRelease() bool  { return s.bit(statusSecureRelease) }
func (s Status) Ack() bool            { return s.bit(statusAck) }
func (s Status) OOS() bool            { return s.bit(statusOOS) }
func (s Status) Shadow() bool         { return s.bit(statusShadow) }
func (s Status) LimHigh() bool        { return s.bit(statusLimHigh) }
func (s Status) LimLow() bool         { return s.bit(statusLimLow) }
func (s Status) Propagated() bool     { return s.bit(statusPropagated) }

func (s Status) SetBad(v bool) Status           { return s.withBit(statusBad, v) }
func (s Status) SetSecureRelease(v bool) Status { return s.withBit(statusSecureRelease, v) }
func (s Status) SetAck(v bool) Status           { return s.withBit(statusAck, v) }
func (s Status) SetOOS(v bool) Status           { return s.withBit(statusOOS, v) }
func (s Status) SetShadow(v bool) Status        { return s.withBit(statusShadow, v) }
func (s Status) SetLimHigh(v bool) Status       { return s.withBit(statusLimHigh, v) }
func (s Status) SetLimLow(v bool) Status        { return s.withBit(statusLimLow, v) }
func (s Status) SetPropagated(v bool) Status    { return s.withBit(statusPropagated, v) }

// Raw returns the full 16-bit word, including the opaque low 8 bits.
func (s Status) Raw() uint16 { return uint16(s) }

// StatusFromRaw reconstructs a Status from a previously captured Raw value,
// preserving the opaque low 8 bits across a copy.
func StatusFromRaw(v uint16) Status { return Status(v) }

// Signal pairs a value of type V with a Status word, used for parameters
// that may carry quality/limit information alongside their value.
type Signal[V any] struct {
	Value  V
	Status Status
}
