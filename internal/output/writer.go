package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	simdjson "github.com/minio/simdjson-go"

	"github.com/gyeh/claim-extract/internal/x12"
)

// WriteResult writes one file's structured records as indented JSON.
// "-" writes to stdout.
func WriteResult(outputPath string, result *x12.FileResult) error {
	if result.Claims == nil {
		result.Claims = []x12.ClaimRecord{}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if outputPath == "-" {
		_, err = os.Stdout.Write(data)
		fmt.Fprintln(os.Stdout)
		return err
	}

	return os.WriteFile(outputPath, data, 0o644)
}

// DerivedName returns the deterministic output path for an input file:
// <outputDir>/<base>_parsed.json, with the EDI extension (and any .gz
// suffix) stripped.
func DerivedName(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	if strings.HasSuffix(strings.ToLower(base), ".gz") {
		base = base[:len(base)-len(".gz")]
	}
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return filepath.Join(outputDir, base+"_parsed.json")
}

// Verify re-reads a written output file and confirms it is syntactically
// valid JSON. Uses simdjson when the CPU supports it, otherwise the
// stdlib decoder.
func Verify(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading output for verification: %w", err)
	}

	if simdjson.SupportedCPU() {
		if _, err := simdjson.Parse(data, nil); err != nil {
			return fmt.Errorf("output is not valid JSON: %w", err)
		}
		return nil
	}

	if !json.Valid(data) {
		return fmt.Errorf("output is not valid JSON")
	}
	return nil
}
