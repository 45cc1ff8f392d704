// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"
	"time"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// Entry is the JSON shape of one plan entry
type Entry struct {
	Item      string           `json:"item"`
	Status    types.SyncStatus `json:"status"`
	Action    types.SyncAction `json:"action"`
	HomeKind  types.ItemKind   `json:"home_kind,omitempty"`
	RepoKind  types.ItemKind   `json:"repo_kind,omitempty"`
	HomeMTime *time.Time       `json:"home_mtime,omitempty"`
	RepoMTime *time.Time       `json:"repo_mtime,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Outcome is the JSON shape of one execution result
type Outcome struct {
	Item         string `json:"item"`
	Action       string `json:"action"`
	RepoModified bool   `json:"repo_modified"`
	Skipped      bool   `json:"skipped"`
	Error        string `json:"error,omitempty"`
}

// Document is written once per session
type Document struct {
	DryRun    bool      `json:"dry_run"`
	Plan      []Entry   `json:"plan"`
	Counts    Counts    `json:"counts"`
	Results   []Outcome `json:"results,omitempty"`
	Committed bool      `json:"committed"`
	CommitErr string    `json:"commit_error,omitempty"`
}

// Counts mirrors the counters of a session result
type Counts struct {
	Planned  int `json:"planned"`
	Selected int `json:"selected"`
	Executed int `json:"executed"`
	Failed   int `json:"failed"`
}

// Renderer buffers session events and writes a single JSON document when
// the session is done
type Renderer struct {
	encoder *json.Encoder
	plan    types.SyncPlan
	err     error
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// Err returns the first encoding error, if any
func (r *Renderer) Err() error {
	return r.err
}

func (r *Renderer) PlanReady(plan types.SyncPlan) {
	r.plan = plan
}

func (r *Renderer) ItemExecuted(types.ExecResult) {}

func (r *Renderer) SessionDone(res *types.SessionResult) {
	if err := r.encoder.Encode(NewDocument(r.plan, res)); err != nil && r.err == nil {
		r.err = err
	}
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

// NewDocument builds the JSON document for plan and res
func NewDocument(plan types.SyncPlan, res *types.SessionResult) Document {
	doc := Document{
		DryRun:    res.DryRun,
		Plan:      make([]Entry, 0, len(plan)),
		Committed: res.Committed,
		Counts: Counts{
			Planned:  res.Planned,
			Selected: res.Selected,
			Executed: res.Executed,
			Failed:   res.Failed,
		},
	}
	if res.CommitErr != nil {
		doc.CommitErr = res.CommitErr.Error()
	}

	for _, e := range plan {
		entry := Entry{
			Item:      e.Item.String(),
			Status:    e.Status,
			Action:    e.Action,
			HomeKind:  e.HomeKind,
			RepoKind:  e.RepoKind,
			HomeMTime: timeOrNil(e.HomeMTime),
			RepoMTime: timeOrNil(e.RepoMTime),
		}
		if e.Err != nil {
			entry.Error = e.Err.Error()
		}
		doc.Plan = append(doc.Plan, entry)
	}

	for _, r := range res.Results {
		out := Outcome{
			Item:         r.Entry.Item.String(),
			Action:       r.Entry.Action.String(),
			RepoModified: r.RepoModified,
			Skipped:      r.Skipped,
		}
		if r.Err != nil {
			out.Error = r.Err.Error()
		}
		doc.Results = append(doc.Results, out)
	}
	return doc
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
