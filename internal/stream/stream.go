package stream

import (
	"errors"
	"io"
	"os"
)

// DefaultChunkSize bounds per-chunk memory at 1 MiB.
const DefaultChunkSize = 1 << 20

// Stream produces the bytes of one file interval as a forward-only sequence
// of chunks. Each Open acquires a fresh handle; the sequence cannot be
// rewound, so resuming means a new Open with a new range. Close must be
// called on every exit path, including early abandonment.
type Stream struct {
	f         *os.File
	buf       []byte
	remaining int64
}

// Open opens path, seeks to rng.Start, and returns a Stream covering the
// interval. A non-positive chunkSize falls back to DefaultChunkSize.
func Open(path string, rng Range, chunkSize int64) (*Stream, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Stream{
		f:         f,
		buf:       make([]byte, chunkSize),
		remaining: rng.Length(),
	}, nil
}

// Next returns the next chunk, at most chunkSize bytes. The returned slice is
// only valid until the following Next call. io.EOF signals exhaustion: the
// interval is fully delivered, or the file ended short of it.
func (s *Stream) Next() ([]byte, error) {
	if s.remaining <= 0 || s.f == nil {
		return nil, io.EOF
	}
	want := int64(len(s.buf))
	if s.remaining < want {
		want = s.remaining
	}
	n, err := s.f.Read(s.buf[:want])
	if n > 0 {
		s.remaining -= int64(n)
		if int64(n) < want {
			// Short read: the file ended before the nominal budget; stop here.
			s.remaining = 0
		}
		return s.buf[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		s.remaining = 0
		return nil, io.EOF
	}
	return nil, err
}

// Close releases the file handle. Safe to call more than once.
func (s *Stream) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
