package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
	// ResultSkipped marks a preview reload whose content hash did not change.
	ResultSkipped ResultLabel = "skipped"
)

// BuildOutcomeLabel is the final status of a site build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeWarning  BuildOutcomeLabel = "warning"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Build stages observed by the renderer and the link checker.
const (
	StageLoad      = "load"
	StageRender    = "render"
	StageLinkCheck = "link_check"
)

// Recorder defines observability hooks for site builds and the preview
// server. Implementations may forward to Prometheus or anything else.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddPagesRendered(kind string, n int)
	SetSectionDocuments(section string, n int)
	SetBrokenLinks(n int)
	IncPreviewRebuild(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) AddPagesRendered(string, int)               {}
func (NoopRecorder) SetSectionDocuments(string, int)            {}
func (NoopRecorder) SetBrokenLinks(int)                         {}
func (NoopRecorder) IncPreviewRebuild(ResultLabel)              {}
