package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; other packages' tests embed the same idea.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	stageResults   map[string]map[ResultLabel]int
	buildDurations int
	buildOutcomes  map[BuildOutcomeLabel]int
	pages          map[string]int
	sections       map[string]int
	brokenLinks    int
	rebuilds       map[ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		stageResults:   map[string]map[ResultLabel]int{},
		buildOutcomes:  map[BuildOutcomeLabel]int{},
		pages:          map[string]int{},
		sections:       map[string]int{},
		rebuilds:       map[ResultLabel]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) ObserveBuildDuration(_ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[outcome]++
}

func (t *testRecorder) AddPagesRendered(kind string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pages[kind] += n
}

func (t *testRecorder) SetSectionDocuments(section string, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sections[section] = n
}

func (t *testRecorder) SetBrokenLinks(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.brokenLinks = n
}

func (t *testRecorder) IncPreviewRebuild(result ResultLabel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rebuilds[result]++
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
