package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sagernet/sing-jarm"
	"github.com/sagernet/sing-jarm/fingerprint"
	"github.com/sagernet/sing-jarm/serverhello"
	"github.com/sagernet/sing-jarm/store"
	"github.com/sagernet/sing/common/json/badoption"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

const sampleRaw = "c02b|0303|h2|0000-0017-ff01-000b-0023-0010"

func newResult(host string, scannedAt time.Time) *jarm.Result {
	raw := make([]serverhello.Result, 10)
	for i := range raw {
		raw[i] = serverhello.ParseResult(sampleRaw)
	}
	return &jarm.Result{
		ID:          uuid.Must(uuid.NewV4()),
		Host:        host,
		Port:        "443",
		Address:     "192.0.2.1:443",
		Fingerprint: fingerprint.Assemble(raw),
		Raw:         raw,
		Match:       &fingerprint.Match{Hash: fingerprint.Assemble(raw), Label: "sample"},
		ScannedAt:   scannedAt,
		Duration:    badoption.Duration(1500 * time.Millisecond),
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	history, err := store.Open(filepath.Join(t.TempDir(), "jarm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { history.Close() })
	return history
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	history := openStore(t)
	result := newResult("example.com", time.Now())
	require.NoError(t, history.Save(result))

	loaded, err := history.Load(result.ID)
	require.NoError(t, err)
	require.Equal(t, result.ID, loaded.ID)
	require.Equal(t, result.Fingerprint, loaded.Fingerprint)
	require.Equal(t, result.Raw, loaded.Raw)
	require.Equal(t, result.Match, loaded.Match)
	require.Equal(t, result.Duration, loaded.Duration)
	require.True(t, result.ScannedAt.Equal(loaded.ScannedAt))

	_, err = history.Load(uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLatest(t *testing.T) {
	t.Parallel()
	history := openStore(t)
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newResult("example.com", baseTime)
	second := newResult("example.com", baseTime.Add(time.Hour))
	other := newResult("example.org", baseTime.Add(2*time.Hour))
	for _, result := range []*jarm.Result{first, second, other} {
		require.NoError(t, history.Save(result))
	}

	latest, err := history.Latest("example.com", "443")
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)

	_, err = history.Latest("example.com", "8443")
	require.ErrorIs(t, err, store.ErrNotFound)

	results, err := history.List()
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, first.ID, results[0].ID)
	require.Equal(t, second.ID, results[1].ID)
	require.Equal(t, other.ID, results[2].ID)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	history := openStore(t)
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newResult("example.com", baseTime)
	second := newResult("example.com", baseTime.Add(time.Hour))
	require.NoError(t, history.Save(first))
	require.NoError(t, history.Save(second))

	require.NoError(t, history.Delete(second.ID))
	latest, err := history.Latest("example.com", "443")
	require.NoError(t, err)
	require.Equal(t, first.ID, latest.ID)

	require.NoError(t, history.Delete(first.ID))
	_, err = history.Latest("example.com", "443")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, history.Delete(first.ID), store.ErrNotFound)

	results, err := history.List()
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "jarm.db")
	history, err := store.Open(path)
	require.NoError(t, err)
	result := newResult("example.com", time.Now())
	require.NoError(t, history.Save(result))
	require.NoError(t, history.Close())

	history, err = store.Open(path)
	require.NoError(t, err)
	defer history.Close()
	require.Equal(t, path, history.Path())
	loaded, err := history.Latest("example.com", "443")
	require.NoError(t, err)
	require.Equal(t, result.ID, loaded.ID)
}

func TestOpenCorrupt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "jarm.db")
	require.NoError(t, os.WriteFile(path, make([]byte, 8192), 0o644))
	history, err := store.Open(path)
	require.NoError(t, err)
	defer history.Close()
	results, err := history.List()
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSaveWithoutID(t *testing.T) {
	t.Parallel()
	history := openStore(t)
	result := newResult("example.com", time.Now())
	result.ID = uuid.Nil
	require.Error(t, history.Save(result))
}
