package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRuns_OrderedByStartTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, createTestRun("run-c", "math", t0.Add(2*time.Minute)), nil))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-a", "math", t0), nil))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-b", "strings", t0.Add(time.Minute)), nil))

	runs, err := s.ListRuns(ctx, "")
	require.NoError(t, err)
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"run-a", "run-b", "run-c"}, ids)

	math, err := s.ListRuns(ctx, "math")
	require.NoError(t, err)
	require.Len(t, math, 2)
	assert.Equal(t, "run-a", math[0].ID)
	assert.Equal(t, "run-c", math[1].ID)
}

func TestListRuns_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadResults_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	results, err := s.ReadResults(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}
