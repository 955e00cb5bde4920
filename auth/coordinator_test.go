package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/harbor/ipc"
	"github.com/safing/harbor/keyspace"
)

func TestSearchFindsPlantedStringAndStopsOtherWorkers(t *testing.T) {
	ks := keyspace.New()
	count := ks.CountFor(2) // scenario 5 of spec.md §8: L=2, 25 candidates
	perWorker := ceilDiv(count, 2)

	// Plant the answer as the first candidate of worker 1's partition.
	// Worker 0 never sees a correct guess of its own, so this exercises
	// its cancellation-on-found path. Worker 0's replies sleep briefly so
	// it can't race through its whole range before worker 1 reports
	// success.
	want := ks.StringAt(2, perWorker)

	w0 := &ipc.FakeSolverQueue{
		Reply: func(_ int, _ string) ipc.SolverResponse {
			time.Sleep(10 * time.Millisecond)
			return ipc.SolverResponse{GuessIsCorrect: ipc.GuessWrong}
		},
	}
	w1 := ipc.NewFakeSolverQueue(9, want)

	c := New(ks, []ipc.SolverQueue{w0, w1})
	result, err := c.Search(context.Background(), 9, 2)

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, want, result.Value)

	// Worker 0's partition holds perWorker candidates; if cancellation on
	// found actually stopped it, it never gets anywhere near exhausting it.
	assert.Less(t, len(w0.Guesses()), perWorker)
}

func TestSearchReturnsNotFoundWhenKeyspaceExhausted(t *testing.T) {
	ks := keyspace.New()
	w0 := ipc.NewFakeSolverQueue(1, "unreachable")

	c := New(ks, []ipc.SolverQueue{w0})
	result, err := c.Search(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestSearchSkipsOutOfRangeLengthSilently(t *testing.T) {
	ks := keyspace.New()
	w0 := ipc.NewFakeSolverQueue(1, "x")

	c := New(ks, []ipc.SolverQueue{w0})

	result, err := c.Search(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.False(t, result.Found)

	result, err = c.Search(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestSearchAbortStopsWorkerWithoutPublishingValue(t *testing.T) {
	ks := keyspace.New()
	aborting := &ipc.FakeSolverQueue{
		Reply: func(dockID int, candidate string) ipc.SolverResponse {
			return ipc.SolverResponse{GuessIsCorrect: ipc.GuessAbort}
		},
	}

	c := New(ks, []ipc.SolverQueue{aborting})
	result, err := c.Search(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Value)
}
