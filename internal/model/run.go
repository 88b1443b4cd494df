package model

import "time"

// RunStatus represents the state of a classification run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary carries the statistics persisted when a run completes.
type RunSummary struct {
	Records     int            `json:"records"`
	Failures    int            `json:"failures"`
	ScopeCounts map[string]int `json:"scope_counts"`
	OutputPath  string         `json:"output_path,omitempty"`
}

// Run records one pipeline execution in the run history. Failures
// counts records for which no usable area geometry could be derived.
type Run struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Status      RunStatus      `json:"status"`
	Records     int            `json:"records"`
	Failures    int            `json:"failures"`
	ScopeCounts map[string]int `json:"scope_counts,omitempty"`
	OutputPath  string         `json:"output_path,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  *time.Time     `json:"finished_at,omitempty"`
}
