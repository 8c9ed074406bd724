package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/claim-extract/internal/x12"
)

// FileReport summarizes the outcome for one input file in a batch.
type FileReport struct {
	Input      string `json:"input"`
	Output     string `json:"output,omitempty"`
	Status     string `json:"status"`
	Validation string `json:"validation,omitempty"`
	Error      string `json:"error,omitempty"`

	Summary x12.Summary `json:"summary"`
}

// BatchReport aggregates a whole batch run.
type BatchReport struct {
	RunID           string       `json:"runId"`
	StartedAt       time.Time    `json:"startedAt"`
	DurationSeconds float64      `json:"durationSeconds"`
	Succeeded       int          `json:"succeeded"`
	Failed          int          `json:"failed"`
	TotalSegments   int          `json:"totalSegments"`
	TotalClaims     int          `json:"totalClaims"`
	TotalLines      int          `json:"totalServiceLines"`
	Files           []FileReport `json:"files"`
}

// NewBatchReport creates a report with a fresh run ID.
func NewBatchReport(startedAt time.Time) *BatchReport {
	return &BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: startedAt,
		Files:     []FileReport{},
	}
}

// Add records one file outcome and folds its counts into the totals.
func (r *BatchReport) Add(fr FileReport) {
	if fr.Error == "" {
		r.Succeeded++
	} else {
		r.Failed++
	}
	r.TotalSegments += fr.Summary.Segments
	r.TotalClaims += fr.Summary.Claims
	r.TotalLines += fr.Summary.ServiceLines
	r.Files = append(r.Files, fr)
}

// Write saves the report as batch_report.json in the output directory
// and returns the path written.
func (r *BatchReport) Write(outputDir string) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling batch report: %w", err)
	}
	path := filepath.Join(outputDir, "batch_report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
