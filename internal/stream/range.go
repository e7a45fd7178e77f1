// Package stream implements the range-aware download path: parsing a byte
// range out of an HTTP Range header and producing the selected interval of a
// file as a bounded-memory chunk sequence.
package stream

import (
	"strconv"
	"strings"
)

// Range is an inclusive byte interval of a file. Partial records whether a
// Range header was present on the request, which decides 206 vs 200.
type Range struct {
	Start   int64
	End     int64
	Partial bool
}

// Length returns the nominal content length of the interval.
func (r Range) Length() int64 { return r.End - r.Start + 1 }

// Valid reports whether the interval is satisfiable for a file of the given
// size. ParseRange does not enforce this; callers wanting strict RFC handling
// check it themselves.
func (r Range) Valid(size int64) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End < size
}

// ParseRange interprets an HTTP Range header for a file of size bytes.
//
// An absent header selects the whole file. "bytes=<start>-<end>" selects the
// inclusive interval, with an empty start defaulting to 0 and an empty end to
// size-1. Any malformed header falls back silently to the whole file instead
// of being rejected, matching permissive real-world client handling; Partial
// is still set whenever a header was present.
func ParseRange(header string, size int64) Range {
	full := Range{Start: 0, End: size - 1}
	header = strings.TrimSpace(header)
	if header == "" {
		return full
	}
	full.Partial = true

	spec := strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return full
	}

	rng := full
	if s := strings.TrimSpace(parts[0]); s != "" {
		start, err := strconv.ParseInt(s, 10, 64)
		if err != nil || start < 0 {
			return full
		}
		rng.Start = start
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		end, err := strconv.ParseInt(s, 10, 64)
		if err != nil || end < 0 {
			return full
		}
		rng.End = end
	}
	return rng
}
