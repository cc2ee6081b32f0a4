// Package store persists enumeration runs for the API server.
//
// A Run records the inputs of an enumeration (element type, degree,
// generators) together with the results once the run completes. Two
// backends are provided:
//   - memory: In-memory storage for development and testing
//   - mongo: MongoDB-backed storage for deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run states.
const (
	StateRunning  = "running"
	StateFinished = "finished"
	StateStopped  = "stopped"
	StateFailed   = "failed"
)

// Run records one enumeration request and its outcome.
type Run struct {
	ID          string     `bson:"_id" json:"id"`
	ElementType string     `bson:"element_type" json:"element_type"`
	Degree      int        `bson:"degree" json:"degree"`
	Generators  [][]uint32 `bson:"generators" json:"generators"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	FinishedAt  *time.Time `bson:"finished_at,omitempty" json:"finished_at,omitempty"`

	// State is one of the State* constants.
	State string `bson:"state" json:"state"`

	// StopReason is the controller's reason when State is stopped or
	// failed.
	StopReason string `bson:"stop_reason,omitempty" json:"stop_reason,omitempty"`

	// Results, valid once State is finished.
	Size          int  `bson:"size" json:"size"`
	Rules         int  `bson:"rules" json:"rules"`
	Idempotents   int  `bson:"idempotents" json:"idempotents"`
	ContainsOne   bool `bson:"contains_one" json:"contains_one"`
	MaxWordLength int  `bson:"max_word_length" json:"max_word_length"`
}

// NewRun creates a Run in the running state with a fresh ID.
func NewRun(elementType string, degree int, generators [][]uint32) *Run {
	return &Run{
		ID:          uuid.NewString(),
		ElementType: elementType,
		Degree:      degree,
		Generators:  generators,
		CreatedAt:   time.Now().UTC(),
		State:       StateRunning,
	}
}

// Finish marks the run finished and records its results.
func (r *Run) Finish(size, rules, idempotents int, containsOne bool, maxWordLength int) {
	now := time.Now().UTC()
	r.FinishedAt = &now
	r.State = StateFinished
	r.Size = size
	r.Rules = rules
	r.Idempotents = idempotents
	r.ContainsOne = containsOne
	r.MaxWordLength = maxWordLength
}

// Fail marks the run failed with the given reason.
func (r *Run) Fail(reason string) {
	now := time.Now().UTC()
	r.FinishedAt = &now
	r.State = StateFailed
	r.StopReason = reason
}

// Store persists runs.
type Store interface {
	// Create inserts a new run.
	Create(ctx context.Context, run *Run) error

	// Get retrieves a run by ID, returning ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Run, error)

	// Update replaces a stored run, returning ErrNotFound if absent.
	Update(ctx context.Context, run *Run) error

	// List returns all runs, newest first.
	List(ctx context.Context) ([]*Run, error)

	// Delete removes a run, returning ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
