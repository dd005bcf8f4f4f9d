package emu

import (
	"strings"
	"testing"

	"github.com/opendcs/calcvm/dump"
)

func loadBlocks(t *testing.T, src string) *Emulator {
	t.Helper()
	blocks, err := dump.ParseReader("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	e := NewEmulator()
	for _, b := range blocks {
		if err := e.AddBlock(b); err != nil {
			t.Fatalf("AddBlock: %v", err)
		}
	}
	return e
}

func TestAddBlockAndLookup(t *testing.T) {
	e := loadBlocks(t, `
COMPND = plant:src
TYPE = CALC
RI01 = 2
STEP01 = "IN RI01"
STEP02 = "STM M01"
STEP03 = "END"
END
`)
	c := e.Block("plant", "src")
	if c == nil {
		t.Fatalf("expected block plant:src to be registered")
	}
	if got := len(e.Blocks()); got != 1 {
		t.Fatalf("expected 1 block, got %d", got)
	}
}

func TestTickExecutesInInsertionOrder(t *testing.T) {
	e := loadBlocks(t, `
COMPND = plant:a
TYPE = CALC
STEP01 = "END"
END

COMPND = plant:b
TYPE = CALC
STEP01 = "END"
END
`)
	got := []string{}
	for _, c := range e.Blocks() {
		got = append(got, c.Name)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected insertion order [a b], got %v", got)
	}

	if err := e.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range e.Blocks() {
		if len(c.Errors()) != 0 {
			t.Fatalf("unexpected errors on %s: %v", c.Name, c.Errors())
		}
	}
}

func TestConnectionResolvesAcrossBlocks(t *testing.T) {
	e := loadBlocks(t, `
COMPND = plant:src
TYPE = CALC
RI01 = 7
STEP01 = "END"
END

COMPND = plant:dst
TYPE = CALC
RI01 = plant:src.RI01
STEP01 = "IN RI01"
STEP02 = "STM M01"
STEP03 = "END"
END
`)
	if err := e.Tick(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := e.Block("plant", "dst")
	if dst == nil {
		t.Fatalf("expected block plant:dst")
	}
	got, ok := dst.Params.ValueOf("M01")
	if !ok || got != 7 {
		t.Fatalf("expected the connected value 7 to flow through, got %v (ok=%v)", got, ok)
	}
}

func TestDuplicateBlockIsRejected(t *testing.T) {
	e := NewEmulator()
	b := dump.Block{Compound: "plant", Name: "src", Fields: map[string]string{"TYPE": "CALC"}}
	if err := e.AddBlock(b); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	if err := e.AddBlock(b); err == nil {
		t.Fatalf("expected an error adding a duplicate compound:block")
	}
}

func TestUnsupportedBlockTypeIsRejected(t *testing.T) {
	e := NewEmulator()
	b := dump.Block{Compound: "plant", Name: "src", Fields: map[string]string{"TYPE": "PID"}}
	if err := e.AddBlock(b); err == nil {
		t.Fatalf("expected an error adding a non-CALC block type")
	}
	if e.Block("plant", "src") != nil {
		t.Fatalf("expected the unsupported block not to be registered")
	}
}

func TestTickFailsOnUnresolvedConnection(t *testing.T) {
	e := loadBlocks(t, `
COMPND = plant:dst
TYPE = CALC
RI01 = plant:missing.RI01
STEP01 = "IN RI01"
STEP02 = "END"
END
`)
	if err := e.Tick(); err == nil {
		t.Fatalf("expected Tick to fail on an unresolved connection")
	}
}
