package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/claim-extract/internal/progress"
	"github.com/gyeh/claim-extract/internal/x12"
)

const sampleEDI = `ST*837*0001*005010X222A1~BHT*0019*00*REF1*20240115*1430~NM1*85*2*TEST CLINIC*****EI*123456789~NM1*IL*1*DOE*JANE****MI*MEM001~CLM*C1*175.50***11:B:1*Y*A*Y*Y~HI*ABK:K0230~LX*1~SV1*HC:99213*125.50*UN*1*11~DTP*472*D8*20240110~LX*2~SV1*HC:85025*50.00*UN*1~SE*12*0001~`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func noop() progress.Tracker {
	return (&progress.NoopManager{}).NewTracker(0, 1, "test")
}

func TestRunPipeline_WritesDerivedOutput(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	in := writeTestFile(t, inDir, "claim001.edi", sampleEDI)

	res := RunPipeline(context.Background(), in, outDir, noop())
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Warning != "" {
		t.Errorf("unexpected warning: %s", res.Warning)
	}

	want := filepath.Join(outDir, "claim001_parsed.json")
	if res.OutputFile != want {
		t.Errorf("output file = %q, want %q", res.OutputFile, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	var decoded x12.FileResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Summary.Claims != 1 || decoded.Summary.ServiceLines != 2 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
	if decoded.Claims[0].Claim.ID != "C1" {
		t.Errorf("claim id = %q, want C1", decoded.Claims[0].Claim.ID)
	}
}

func TestRunPipeline_EmptyFileWarnsButWrites(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	in := writeTestFile(t, inDir, "empty.edi", "")

	res := RunPipeline(context.Background(), in, outDir, noop())
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Warning == "" {
		t.Error("expected a validation warning for an empty file")
	}
	if _, err := os.Stat(res.OutputFile); err != nil {
		t.Errorf("flagged output should still be written: %v", err)
	}
}

func TestRunPipeline_MissingFileFails(t *testing.T) {
	res := RunPipeline(context.Background(), "/does/not/exist.edi", t.TempDir(), noop())
	if res.Err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestPool_ContinuesPastFailures(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	good1 := writeTestFile(t, inDir, "good1.edi", sampleEDI)
	bad := filepath.Join(inDir, "missing.edi")
	good2 := writeTestFile(t, inDir, "good2.edi", sampleEDI)

	pool := &Pool{Workers: 2, OutputDir: outDir, Progress: &progress.NoopManager{}}
	results := pool.Run(context.Background(), []string{good1, bad, good2})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("good files failed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("missing file should have failed")
	}

	// Results stay in input order.
	if FileName(results[0].Input) != "good1.edi" || FileName(results[2].Input) != "good2.edi" {
		t.Errorf("results out of order: %q, %q", results[0].Input, results[2].Input)
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inDir := t.TempDir()
	in := writeTestFile(t, inDir, "claim.edi", sampleEDI)

	pool := &Pool{Workers: 1, OutputDir: t.TempDir(), Progress: &progress.NoopManager{}}
	results := pool.Run(ctx, []string{in})

	if results[0].Err == nil {
		t.Error("expected context error after cancellation")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.edi", "x")
	writeTestFile(t, dir, "b.TXT", "x")
	writeTestFile(t, dir, "c.837", "x")
	writeTestFile(t, dir, "d.x12.gz", "x")
	writeTestFile(t, dir, "ignore.json", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub.edi"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 {
		t.Fatalf("expected 4 files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Base(f) == "ignore.json" {
			t.Errorf("json file should not be discovered")
		}
	}
}

func TestDiscover_CustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.claims", "x")
	writeTestFile(t, dir, "b.edi", "x")

	files, err := Discover(dir, []string{".claims"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.claims" {
		t.Errorf("files = %v, want only a.claims", files)
	}
}
