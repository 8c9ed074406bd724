package progress

import (
	"fmt"
	"sync/atomic"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Tracker tracks interpretation progress for a single input file.
type Tracker interface {
	SetStage(stage string)
	SetCounts(segments, claims, lines int)
	Done()
}

// Manager creates trackers for individual files.
type Manager interface {
	NewTracker(index, total int, filename string) Tracker
	Wait()
}

// MPBManager implements Manager using the mpb multi-progress-bar
// library, one bar per file.
type MPBManager struct {
	container *mpb.Progress
}

// NewMPBManager creates a new mpb-based progress manager.
func NewMPBManager() *MPBManager {
	return &MPBManager{container: mpb.New(mpb.WithWidth(60))}
}

// NewTracker creates a progress bar for one file. Interpretation is a
// fixed three-stage pipeline (read, interpret, write), so the bar total
// is the stage count.
func (m *MPBManager) NewTracker(index, total int, filename string) Tracker {
	status := &atomic.Value{}
	status.Store("")

	bar := m.container.AddBar(stageCount,
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("[%d/%d] %s ", index+1, total, filename), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Any(func(s decor.Statistics) string {
				return status.Load().(string)
			}),
		),
	)

	return &mpbTracker{bar: bar, status: status}
}

// Wait waits for all progress bars to finish.
func (m *MPBManager) Wait() {
	m.container.Wait()
}

const stageCount = 3

type mpbTracker struct {
	bar    *mpb.Bar
	status *atomic.Value
	stages int64
}

func (t *mpbTracker) SetStage(stage string) {
	t.status.Store(stage)
	t.bar.SetCurrent(atomic.AddInt64(&t.stages, 1) - 1)
}

func (t *mpbTracker) SetCounts(segments, claims, lines int) {
	t.status.Store(fmt.Sprintf("%d segments, %d claim(s), %d line(s)", segments, claims, lines))
}

func (t *mpbTracker) Done() {
	t.bar.SetCurrent(stageCount)
	t.bar.Abort(false) // complete without removing
}

// NoopManager is a no-op progress manager for tests and quiet runs.
type NoopManager struct{}

func (m *NoopManager) NewTracker(index, total int, filename string) Tracker {
	return noopTracker{}
}

func (m *NoopManager) Wait() {}

type noopTracker struct{}

func (noopTracker) SetStage(stage string)                 {}
func (noopTracker) SetCounts(segments, claims, lines int) {}
func (noopTracker) Done()                                 {}
