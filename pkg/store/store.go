// Package store keeps a history of solver runs.
//
// A [Run] records what was solved (the input boxes and options), what came
// out (the tower and its height) and how long it took. Runs are identified
// by a random UUID assigned by [NewRun].
//
// Backends:
//   - [MemoryStore] for tests and a server without persistence
//   - [FileStore] for the CLI, one JSON file per run
//   - [MongoStore] for the HTTP server
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses ~/.config/boxtower/runs/
//	run := store.NewRun("tabu", params, input, tower, elapsed)
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//	latest, err := st.List(ctx, 10)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

// Params are the solver options a run was made with. Tabu fields are zero
// for the other algorithms.
type Params struct {
	MaxIterations int    `json:"max_iterations,omitempty" bson:"max_iterations,omitempty"`
	Capacities    []int  `json:"capacities,omitempty" bson:"capacities,omitempty"`
	Seed          uint64 `json:"seed,omitempty" bson:"seed,omitempty"`
	Selection     string `json:"selection,omitempty" bson:"selection,omitempty"`
	Policy        string `json:"policy,omitempty" bson:"policy,omitempty"`
	Initial       string `json:"initial,omitempty" bson:"initial,omitempty"`
}

// Run is one solver invocation.
type Run struct {
	ID         string    `json:"id" bson:"_id"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	Algorithm  string    `json:"algorithm" bson:"algorithm"`
	Params     Params    `json:"params" bson:"params"`
	Input      []box.Box `json:"input" bson:"input"`
	Boxes      []box.Box `json:"boxes" bson:"boxes"`
	Height     int       `json:"height" bson:"height"`
	DurationMS int64     `json:"duration_ms" bson:"duration_ms"`
	Cached     bool      `json:"cached" bson:"cached"`
}

// NewRun creates a run with a fresh ID and the current time.
func NewRun(algorithm string, params Params, input, tower []box.Box, elapsed time.Duration) *Run {
	return &Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Algorithm:  algorithm,
		Params:     params,
		Input:      input,
		Boxes:      tower,
		Height:     box.TotalHeight(tower),
		DurationMS: elapsed.Milliseconds(),
	}
}

// Store persists runs.
type Store interface {
	// Get returns the run with the given ID, or a RUN_NOT_FOUND error.
	// A malformed ID yields INVALID_INPUT.
	Get(ctx context.Context, id string) (*Run, error)

	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// List returns up to limit runs, newest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
}
