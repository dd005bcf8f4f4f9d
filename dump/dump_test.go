package dump

import (
	"strings"
	"testing"
)

func TestParseConnection(t *testing.T) {
	ref, ok := ParseConnection("plant:block1.ri01")
	if !ok {
		t.Fatalf("expected a connection reference")
	}
	if ref.Compound != "plant" || ref.Block != "block1" || ref.Parameter != "RI01" {
		t.Fatalf("unexpected parse: %+v", ref)
	}

	if _, ok := ParseConnection("3.14"); ok {
		t.Fatalf("a plain number must not parse as a connection")
	}
}

func TestParseConnectionEmptyCompound(t *testing.T) {
	ref, ok := ParseConnection(":block1.ro01")
	if !ok {
		t.Fatalf("expected a connection reference")
	}
	if ref.Compound != "" || ref.Block != "block1" {
		t.Fatalf("unexpected parse: %+v", ref)
	}
}

func TestParseReaderBasic(t *testing.T) {
	src := `
# a comment
COMPND = plant:block1
TYPE = CALC
RI01 = 1.5
STEP01 = "ADD 5"
END

COMPND = plant:block2
TYPE = CALC
END
`
	blocks, err := ParseReader("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Compound != "plant" || b.Name != "block1" {
		t.Fatalf("unexpected identity: %+v", b)
	}
	if b.Fields["RI01"] != "1.5" {
		t.Fatalf("expected RI01=1.5, got %q", b.Fields["RI01"])
	}
	if b.Fields["STEP01"] != "ADD 5" {
		t.Fatalf("expected quoted value unquoted, got %q", b.Fields["STEP01"])
	}
}

func TestParseReaderMalformedLine(t *testing.T) {
	_, err := ParseReader("test", strings.NewReader("COMPND = plant:block1\nNOT_AN_ASSIGNMENT\nEND\n"))
	if err == nil {
		t.Fatalf("expected an error for a line without '='")
	}
}

func TestParseReaderTrailingRecordWithoutEND(t *testing.T) {
	blocks, err := ParseReader("test", strings.NewReader("COMPND = plant:block1\nTYPE = CALC\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected the trailing record to be flushed, got %d blocks", len(blocks))
	}
}
