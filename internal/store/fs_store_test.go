package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/opt"
	"github.com/robashaw/basisopt/internal/strategy"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	b := basis.InternalBasis{
		"o": {basis.NewShell("s", []float64{10.0, 2.0, 0.4})},
	}
	strat, err := strategy.NewDefault("energy")
	require.NoError(t, err)
	require.NoError(t, strat.Initialise(b, "o"))
	return NewSession("o", strat, b)
}

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	fs, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestNewSessionFields(t *testing.T) {
	s := testSession(t)
	assert.Equal(t, SchemaVersion, s.Version)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "o", s.Element)
	assert.False(t, s.Created.IsZero())
	assert.Equal(t, "Default", s.Strategy.Type)
	require.NoError(t, s.Validate())

	// The stored basis is a snapshot, not a live reference.
	s2 := testSession(t)
	assert.NotEqual(t, s.ID, s2.ID)
}

func TestSessionValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Session)
	}{
		{"version", func(s *Session) { s.Version = SchemaVersion + 1 }},
		{"id", func(s *Session) { s.ID = "" }},
		{"element", func(s *Session) { s.Element = "" }},
		{"created", func(s *Session) { s.Created = time.Time{} }},
		{"strategy", func(s *Session) { s.Strategy.Type = "" }},
		{"basis", func(s *Session) { s.Basis = nil }},
		{"coefs", func(s *Session) { s.Basis["o"][0].Coefs = [][]float64{{1.0}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testSession(t)
			tc.mutate(s)
			err := s.Validate()
			assert.ErrorIs(t, err, &ValidationError{})
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := newTestStore(t)
	s := testSession(t)
	s.Results = opt.NewOptResult()
	s.Results.Add("atomicopt1", &opt.Result{Fun: -1.5, Success: true})

	require.NoError(t, fs.SaveSession(s))

	loaded, err := fs.LoadSession(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Element, loaded.Element)
	assert.Equal(t, s.Basis, loaded.Basis)
	require.NotNil(t, loaded.Results)
	assert.Equal(t, -1.5, loaded.Results.Final().Fun)

	restored, err := loaded.RestoreStrategy()
	require.NoError(t, err)
	assert.Equal(t, "Default", restored.Name())
}

func TestSaveRejectsInvalid(t *testing.T) {
	fs := newTestStore(t)
	assert.Error(t, fs.SaveSession(nil))

	s := testSession(t)
	s.Element = ""
	err := fs.SaveSession(s)
	assert.ErrorIs(t, err, &ValidationError{})
}

func TestLoadMissingSession(t *testing.T) {
	fs := newTestStore(t)
	_, err := fs.LoadSession("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSessions(t *testing.T) {
	fs := newTestStore(t)

	infos, err := fs.ListSessions()
	require.NoError(t, err)
	assert.Empty(t, infos)

	s1 := testSession(t)
	s2 := testSession(t)
	require.NoError(t, fs.SaveSession(s1))
	require.NoError(t, fs.SaveSession(s2))

	infos, err = fs.ListSessions()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	ids := map[string]bool{infos[0].ID: true, infos[1].ID: true}
	assert.True(t, ids[s1.ID])
	assert.True(t, ids[s2.ID])
	assert.Equal(t, "Default", infos[0].Strategy)
}

func TestListSkipsCorruptSessions(t *testing.T) {
	fs := newTestStore(t)
	s := testSession(t)
	require.NoError(t, fs.SaveSession(s))

	// A directory with garbage instead of a session document.
	bad := filepath.Join(fs.baseDir, "sessions", "corrupt")
	require.NoError(t, os.MkdirAll(bad, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "session.json"), []byte("{not json"), 0644))

	infos, err := fs.ListSessions()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, s.ID, infos[0].ID)
}

func TestDeleteSession(t *testing.T) {
	fs := newTestStore(t)
	s := testSession(t)
	require.NoError(t, fs.SaveSession(s))

	require.NoError(t, fs.DeleteSession(s.ID))
	_, err := fs.LoadSession(s.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	err = fs.DeleteSession(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTraceWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	tw, err := NewTraceWriter(dir, "abc", false)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, tw.Write(TraceEntry{
			Step:      i,
			Label:     "atomicopt1",
			Objective: float64(i) * 0.5,
			Params:    []float64{1.0, 2.0},
		}))
	}
	require.NoError(t, tw.Close())

	entries, err := ReadTrace(dir, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Step)
	assert.Equal(t, 1.5, entries[2].Objective)
	assert.Equal(t, []float64{1.0, 2.0}, entries[1].Params)
}

func TestTraceAppendMode(t *testing.T) {
	dir := t.TempDir()
	tw, err := NewTraceWriter(dir, "abc", false)
	require.NoError(t, err)
	require.NoError(t, tw.Write(TraceEntry{Step: 1}))
	require.NoError(t, tw.Close())

	tw, err = NewTraceWriter(dir, "abc", true)
	require.NoError(t, err)
	require.NoError(t, tw.Write(TraceEntry{Step: 2}))
	require.NoError(t, tw.Close())

	entries, err := ReadTrace(dir, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Truncate mode starts over.
	tw, err = NewTraceWriter(dir, "abc", false)
	require.NoError(t, err)
	require.NoError(t, tw.Write(TraceEntry{Step: 3}))
	require.NoError(t, tw.Close())

	entries, err = ReadTrace(dir, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Step)
}

func TestReadTraceMissing(t *testing.T) {
	_, err := ReadTrace(t.TempDir(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
