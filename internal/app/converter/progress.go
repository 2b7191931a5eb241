package converter

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// StageBar tracks the pipeline stages of one run.
type StageBar struct {
	bar     *mpb.Bar
	enabled bool

	mu    sync.Mutex
	stage string
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

// CreateStageBar adds a bar with one step per stage name; the current stage is shown in front.
func (pm *ProgressManager) CreateStageBar(description string, stages int) *StageBar {
	if pm == nil || !pm.enabled || pm.container == nil {
		return &StageBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	sb := &StageBar{enabled: true}
	sb.bar = pm.container.AddBar(int64(stages),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string { return sb.currentStage() }, decor.WCSyncWidthR),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
			decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace), " ✓ "),
		),
	)
	return sb
}

// Start names the stage that is about to run.
func (sb *StageBar) Start(stage string) {
	if sb == nil || !sb.enabled {
		return
	}
	sb.mu.Lock()
	sb.stage = stage
	sb.mu.Unlock()
}

// Done marks the current stage as finished.
func (sb *StageBar) Done() {
	if sb != nil && sb.enabled && sb.bar != nil {
		sb.bar.Increment()
	}
}

// Abort stops the bar after a failed stage, leaving it on screen.
func (sb *StageBar) Abort() {
	if sb != nil && sb.enabled && sb.bar != nil {
		sb.bar.Abort(false)
	}
}

func (sb *StageBar) currentStage() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.stage
}

func (pm *ProgressManager) Wait() {
	if pm != nil && pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

func (pm *ProgressManager) Shutdown() {
	if pm != nil && pm.enabled && pm.container != nil {
		pm.container.Shutdown()
	}
}

func IsTTY(writer io.Writer) bool {
	if writer == nil {
		return false
	}

	if file, ok := writer.(*os.File); ok {
		fd := file.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return false
}

// ShouldShowProgress reports whether a bar should be drawn on writer.
// Bars are only drawn when requested and writer is a terminal.
func ShouldShowProgress(requested bool, writer io.Writer) bool {
	return requested && IsTTY(writer)
}
