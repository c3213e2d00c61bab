package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxtower/pkg/box"
	"github.com/matzehuels/boxtower/pkg/errors"
)

func sampleRun(created time.Time) *Run {
	input := []box.Box{box.New(10, 5, 8), box.New(5, 8, 10)}
	tower := []box.Box{box.New(5, 8, 10), box.New(10, 5, 8)}
	run := NewRun("tabu", Params{MaxIterations: 100, Capacities: []int{7, 8, 9, 10}, Seed: 42}, input, tower, 1500*time.Microsecond)
	run.CreatedAt = created
	return run
}

// testStore exercises the Store contract.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, uuid.NewString())
		assert.True(t, errors.Is(err, errors.ErrCodeRunNotFound), "got %v", err)
	})

	t.Run("get malformed id", func(t *testing.T) {
		_, err := s.Get(ctx, "../../etc/passwd")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})

	t.Run("save and get", func(t *testing.T) {
		run := sampleRun(base)
		require.NoError(t, s.Save(ctx, run))

		got, err := s.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, 15, got.Height)
		assert.Equal(t, run.Boxes, got.Boxes)
		assert.Equal(t, run.Input, got.Input)
		assert.Equal(t, run.Params, got.Params)
		assert.Equal(t, int64(1), got.DurationMS)
		assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("save replaces", func(t *testing.T) {
		run := sampleRun(base)
		require.NoError(t, s.Save(ctx, run))
		run.Cached = true
		require.NoError(t, s.Save(ctx, run))

		got, err := s.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.True(t, got.Cached)
	})

	t.Run("list newest first", func(t *testing.T) {
		ids := make([]string, 3)
		for i := range ids {
			run := sampleRun(base.Add(time.Duration(i+1) * time.Hour))
			require.NoError(t, s.Save(ctx, run))
			ids[i] = run.ID
		}

		runs, err := s.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, ids[2], runs[0].ID)
		assert.Equal(t, ids[1], runs[1].ID)

		all, err := s.List(ctx, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 3)
	})

	t.Run("delete", func(t *testing.T) {
		run := sampleRun(base)
		require.NoError(t, s.Save(ctx, run))
		require.NoError(t, s.Delete(ctx, run.ID))

		_, err := s.Get(ctx, run.ID)
		assert.True(t, errors.Is(err, errors.ErrCodeRunNotFound))
		assert.NoError(t, s.Delete(ctx, run.ID), "deleting twice is fine")
	})

	t.Run("reject bad id on save", func(t *testing.T) {
		run := sampleRun(base)
		run.ID = "not-a-uuid"
		assert.Error(t, s.Save(ctx, run))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	run := sampleRun(time.Now())
	require.NoError(t, s.Save(ctx, run))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(), uuid.NewString()+".json"), []byte("{"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(), "notes.txt"), []byte("hi"), 0600))

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestNewRun(t *testing.T) {
	run := sampleRun(time.Now())
	assert.NoError(t, errors.ValidateRunID(run.ID))
	assert.Equal(t, "tabu", run.Algorithm)
	assert.Equal(t, 15, run.Height)
	assert.NotEqual(t, run.ID, sampleRun(time.Now()).ID)
}

// TestMongoStore runs against a live server when BOXTOWER_TEST_MONGO is set,
// e.g. BOXTOWER_TEST_MONGO=mongodb://localhost:27017.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("BOXTOWER_TEST_MONGO")
	if uri == "" {
		t.Skip("BOXTOWER_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "boxtower_test_"+uuid.NewString()[:8])
	require.NoError(t, err)
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}
