package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "state", "history.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	assert.Equal(t, dbPath, s.Path())
}

func TestRecordRun_AssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	r := &Run{
		Dataset:       "movie_metadata.csv",
		Rows:          5043,
		ColorColumn:   "color",
		Color:         4815,
		BlackAndWhite: 209,
		Unknown:       19,
		DurationMS:    1200,
	}
	require.NoError(t, s.RecordRun(r))
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordRun(&Run{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Dataset:   fmt.Sprintf("run-%d.csv", i),
			Rows:      i,
		}))
	}

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-2.csv", runs[0].Dataset)
	assert.Equal(t, "run-0.csv", runs[2].Dataset)

	limited, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "run-2.csv", limited[0].Dataset)
}

func TestListRuns_RoundTripFields(t *testing.T) {
	s := newTestStore(t)
	in := &Run{
		Dataset:       "x.csv",
		Rows:          10,
		ColorColumn:   "color",
		Color:         7,
		BlackAndWhite: 2,
		Unknown:       1,
		DurationMS:    88,
	}
	require.NoError(t, s.RecordRun(in))

	runs, err := s.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, "x.csv", got.Dataset)
	assert.Equal(t, 10, got.Rows)
	assert.Equal(t, "color", got.ColorColumn)
	assert.Equal(t, 7, got.Color)
	assert.Equal(t, 2, got.BlackAndWhite)
	assert.Equal(t, 1, got.Unknown)
	assert.Equal(t, int64(88), got.DurationMS)
}

func TestListRuns_EmptyColorColumn(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordRun(&Run{Dataset: "no_color.csv", Rows: 2, Unknown: 2}))

	runs, err := s.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].ColorColumn)
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordRun(&Run{Dataset: "x.csv"}))
	require.NoError(t, s.Clear())

	runs, err := s.ListRuns(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
