package site

import "time"

// Stage names.
const (
	StageNotFound  = "notfound"
	StageNormalize = "normalize"
	StageLinks     = "links"
	StageDomain    = "domain"
)

// Kind classifies a change made to the tree.
type Kind string

const (
	KindCreate  Kind = "create"
	KindRename  Kind = "rename"
	KindDelete  Kind = "delete"
	KindHref    Kind = "href"
	KindContent Kind = "content"
)

// Event records a single change. Path is relative to the site root.
type Event struct {
	Stage string
	Kind  Kind
	Path  string
	Old   string
	New   string
}

// StageResult summarizes one stage run.
type StageResult struct {
	Stage    string
	Visited  int
	Failures int
	Events   []Event
	Duration time.Duration
}

func newStageResult(stage string) *StageResult {
	return &StageResult{Stage: stage}
}

func (r *StageResult) record(kind Kind, path, oldValue, newValue string) {
	r.Events = append(r.Events, Event{Stage: r.Stage, Kind: kind, Path: path, Old: oldValue, New: newValue})
}

// Count returns the number of events of the given kind.
func (r *StageResult) Count(kind Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Changed reports whether the stage modified the tree.
func (r *StageResult) Changed() bool { return len(r.Events) > 0 }
