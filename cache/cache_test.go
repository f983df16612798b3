package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name   string
	Values []float64
	Nested *record
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := Open(path)
	require.NoError(t, err)

	key := "1abc"
	var got record
	found, err := s.Get(key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := record{Name: "a", Values: []float64{1, 2.5}, Nested: &record{Name: "b"}}
	require.NoError(t, s.Put(key, want))
	found, err = s.Get(key, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Close())

	// Values survive reopening.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	var again record
	found, err = s.Get(key, &again)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, again)
}

func TestKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdb")
	other := filepath.Join(dir, "b.pdb")
	require.NoError(t, os.WriteFile(path, []byte("ATOM\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("ATOM\n"), 0644))

	key := func(path, fingerprint string) string {
		k, err := Key(path, fingerprint)
		require.NoError(t, err)
		return k
	}
	assert.Equal(t, key(path, "x"), key(path, "x"))
	assert.NotEqual(t, key(path, "x"), key(path, "y"))
	assert.NotEqual(t, key(path, "x"), key(other, "x"))
	assert.Equal(t, key(path, "x"), key(filepath.Join(dir, "sub", "..", "a.pdb"), "x"))

	_, err := Key(filepath.Join(dir, "missing.pdb"), "x")
	assert.Error(t, err)
}

func TestKeyChangesWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdb")
	require.NoError(t, os.WriteFile(path, []byte("ATOM 1\n"), 0644))
	before, err := Key(path, "x")
	require.NoError(t, err)

	// Same size, new contents and a later modification time.
	require.NoError(t, os.WriteFile(path, []byte("ATOM 2\n"), 0644))
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))
	after, err := Key(path, "x")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	// A different size alone changes the key too.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("ATOM 22\n"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))
	resized, err := Key(path, "x")
	require.NoError(t, err)
	assert.NotEqual(t, after, resized)

	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Put(before, "stale"))
	var v string
	found, err := s.Get(resized, &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDecodeMismatch(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("k", "just a string"))
	var r record
	found, err := s.Get("k", &r)
	assert.Error(t, err)
	assert.False(t, found)
}
