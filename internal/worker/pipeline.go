package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gyeh/claim-extract/internal/output"
	"github.com/gyeh/claim-extract/internal/progress"
	"github.com/gyeh/claim-extract/internal/x12"
)

// PipelineResult holds the outcome of processing a single claim file.
// A file either yields a complete record set or fails in full; the
// validation warning is non-fatal and the output is still written.
type PipelineResult struct {
	Input      string
	OutputFile string
	Result     *x12.FileResult
	Warning    string
	Err        error
}

// RunPipeline processes a single claim file: decode segments, interpret
// them into claim records, validate, and write the JSON output.
func RunPipeline(ctx context.Context, inputPath, outputDir string, tracker progress.Tracker) *PipelineResult {
	res := &PipelineResult{Input: inputPath}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	tracker.SetStage("Reading segments")
	src, closer, err := x12.Open(inputPath)
	if err != nil {
		res.Err = fmt.Errorf("opening %s: %w", FileName(inputPath), err)
		return res
	}
	defer closer.Close()

	tracker.SetStage("Interpreting")
	result, err := x12.Run(src, FileName(inputPath))
	if err != nil {
		res.Err = fmt.Errorf("interpreting %s: %w", FileName(inputPath), err)
		return res
	}
	res.Result = result
	tracker.SetCounts(result.Summary.Segments, result.Summary.Claims, result.Summary.ServiceLines)

	if ok, msg := x12.Validate(result); !ok {
		res.Warning = msg
	}

	tracker.SetStage("Writing output")
	outPath := output.DerivedName(inputPath, outputDir)
	if err := output.WriteResult(outPath, result); err != nil {
		res.Err = fmt.Errorf("writing %s: %w", outPath, err)
		return res
	}
	res.OutputFile = outPath

	if err := output.Verify(outPath); err != nil {
		res.Warning = err.Error()
	}

	return res
}

// FileName returns the base name of an input path for display.
func FileName(path string) string {
	return filepath.Base(path)
}
