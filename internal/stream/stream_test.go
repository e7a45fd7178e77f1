package stream

import (
	"bytes"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func drain(t *testing.T, s *Stream) []byte {
	t.Helper()
	var out []byte
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, chunk...)
	}
}

func TestStreamWholeFile(t *testing.T) {
	data := []byte("hello")
	path := writeTemp(t, data)

	s, err := Open(path, Range{Start: 0, End: 4}, 0)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, data, drain(t, s))
}

func TestStreamInterior(t *testing.T) {
	path := writeTemp(t, []byte("hello"))

	s, err := Open(path, Range{Start: 1, End: 3}, 2)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []byte("ell"), drain(t, s))
}

func TestStreamChunkBounds(t *testing.T) {
	path := writeTemp(t, bytes.Repeat([]byte{0xAB}, 10))

	s, err := Open(path, Range{Start: 0, End: 9}, 4)
	require.NoError(t, err)
	defer s.Close()

	var sizes []int
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(chunk))
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)
}

func TestStreamStopsAtEOFBeforeBudget(t *testing.T) {
	path := writeTemp(t, []byte("hello"))

	s, err := Open(path, Range{Start: 0, End: 999}, 1024)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []byte("hello"), drain(t, s))

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStreamRoundTripFidelity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, 64*1024)
	_, err := rng.Read(data)
	require.NoError(t, err)
	path := writeTemp(t, data)

	for _, iv := range []Range{
		{Start: 0, End: int64(len(data)) - 1},
		{Start: 1, End: 1},
		{Start: 1000, End: 50000},
		{Start: int64(len(data)) - 10, End: int64(len(data)) - 1},
	} {
		s, err := Open(path, iv, 4096)
		require.NoError(t, err)
		got := drain(t, s)
		require.NoError(t, s.Close())

		assert.Equal(t, iv.Length(), int64(len(got)), "range %+v", iv)
		assert.True(t, bytes.Equal(data[iv.Start:iv.End+1], got), "range %+v", iv)
	}
}

func TestStreamCloseIdempotent(t *testing.T) {
	path := writeTemp(t, []byte("x"))
	s, err := Open(path, Range{Start: 0, End: 0}, 0)
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())

	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), Range{Start: 0, End: 0}, 0)
	assert.Error(t, err)
}
