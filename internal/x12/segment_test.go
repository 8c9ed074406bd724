package x12

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
)

// conforming ISA header, 105 chars + "~" terminator at offset 105.
const testISA = "ISA*00*          *00*          *ZZ*SUBMITTERX     *ZZ*RECEIVERYY     *240115*1430*^*00501*000000001*0*P*:~"

func drain(t *testing.T, src Source) []Segment {
	t.Helper()
	var segs []Segment
	for {
		seg, err := src.Next()
		if err == io.EOF {
			return segs
		}
		if err != nil {
			t.Fatal(err)
		}
		segs = append(segs, seg)
	}
}

func TestSegmentElem_OutOfRange(t *testing.T) {
	seg := Segment{ID: "NM1", Elements: []string{"41", "2", "ACME"}}

	if got := seg.Elem(1); got != "41" {
		t.Errorf("Elem(1) = %q, want 41", got)
	}
	if got := seg.Elem(3); got != "ACME" {
		t.Errorf("Elem(3) = %q, want ACME", got)
	}
	if got := seg.Elem(9); got != "" {
		t.Errorf("Elem(9) = %q, want empty", got)
	}
	if got := seg.Elem(0); got != "" {
		t.Errorf("Elem(0) = %q, want empty", got)
	}
}

func TestReader_SplitsSegments(t *testing.T) {
	input := testISA + "\nGS*HC*SENDER*RECEIVER*20240115*1430*1*X*005010X222A1~\nST*837*0001*005010X222A1~\nSE*3*0001~\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	segs := drain(t, r)

	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	if segs[0].ID != "ISA" || segs[1].ID != "GS" || segs[2].ID != "ST" || segs[3].ID != "SE" {
		t.Errorf("unexpected segment order: %s %s %s %s", segs[0].ID, segs[1].ID, segs[2].ID, segs[3].ID)
	}
	if got := segs[2].Elem(1); got != "837" {
		t.Errorf("ST01 = %q, want 837", got)
	}
}

func TestReader_DerivesDelimitersFromISA(t *testing.T) {
	// Same ISA shape but with "|" as the element separator.
	isa := strings.ReplaceAll(testISA, "*", "|")
	input := isa + "ST|837|0001~CLM|CLAIM1|100.50~"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	segs := drain(t, r)

	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if got := segs[2].Elem(2); got != "100.50" {
		t.Errorf("CLM02 = %q, want 100.50", got)
	}
}

func TestReader_DefaultDelimitersWithoutISA(t *testing.T) {
	r, err := NewReader(strings.NewReader("ST*837*0001~CLM*C1*50~"))
	if err != nil {
		t.Fatal(err)
	}
	segs := drain(t, r)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[1].Elem(1) != "C1" {
		t.Errorf("CLM01 = %q, want C1", segs[1].Elem(1))
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r, err := NewReader(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if segs := drain(t, r); len(segs) != 0 {
		t.Errorf("expected no segments, got %d", len(segs))
	}
}

func TestOpen_GzippedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claim.edi.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := pgzip.NewWriter(f)
	if _, err := gz.Write([]byte("ST*837*0001~CLM*C1*50~")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, closer, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	segs := drain(t, r)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments from gzipped input, got %d", len(segs))
	}
	if segs[1].Elem(1) != "C1" {
		t.Errorf("CLM01 = %q, want C1", segs[1].Elem(1))
	}
}
