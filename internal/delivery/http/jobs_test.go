package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pncpbot/backend/internal/domain"
)

func TestJobStore_Lifecycle(t *testing.T) {
	store := NewJobStore(time.Hour)

	id := store.Create(domain.ExtractionParams{Keywords: "cabo"})
	require.Len(t, id, 8)

	view, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, JobQueued, view.Status)
	assert.Empty(t, view.Results)

	store.SetRunning(id)
	store.AppendLog(id, "Buscando processos...")
	store.SetProgress(id, 1, 3, "Processando P-1...")

	view, err = store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, JobRunning, view.Status)
	assert.Equal(t, []string{"Buscando processos..."}, view.Logs)
	require.NotNil(t, view.Progress)
	assert.Equal(t, 1, view.Progress.Current)
	assert.Equal(t, 3, view.Progress.Total)

	records := []domain.Record{{ProcessID: "P-1", MatchQuality: "exact"}}
	store.Complete(id, domain.StatusDone, records)

	view, err = store.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, view.Status)
	assert.Equal(t, 1, view.TotalResults)
	require.Len(t, view.Results, 1)
	assert.Equal(t, "P-1", view.Results[0].ProcessID)
}

func TestJobStore_UnknownID(t *testing.T) {
	store := NewJobStore(time.Hour)

	_, err := store.Snapshot("missing")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobStore_LogsCappedInSnapshot(t *testing.T) {
	store := NewJobStore(time.Hour)
	id := store.Create(domain.ExtractionParams{})

	for i := 0; i < 50; i++ {
		store.AppendLog(id, "line")
	}

	view, err := store.Snapshot(id)
	require.NoError(t, err)
	assert.Len(t, view.Logs, jobViewLogLines)
}

func TestJobStore_DistinctIDs(t *testing.T) {
	store := NewJobStore(time.Hour)

	a := store.Create(domain.ExtractionParams{})
	b := store.Create(domain.ExtractionParams{})

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.Size())
}
