package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidPath is returned for malformed names and traversal attempts.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNotFound is returned when the name does not resolve to a regular file.
	ErrNotFound = errors.New("file not found")
	// ErrAccessDenied is returned when the name resolves outside the shared root.
	ErrAccessDenied = errors.New("access denied")
)

// SafeFilename reduces a client-supplied filename to a single safe path
// component: separators collapse to the final segment, control characters and
// NUL are removed, and leading/trailing dots and spaces are trimmed. The
// result can never act as a traversal vector. Returns "" for names with no
// usable content.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	name = strings.Trim(b.String(), ". ")
	if name == "" || name == "/" {
		return ""
	}
	return name
}

// Sanitize validates a client-supplied (already URL-decoded) filename against
// rootAbs and returns the absolute path of the regular file it names. Symlinks
// are resolved on both the candidate and the root before the containment
// check, so a link inside the folder pointing elsewhere is refused.
//
// Pure validation: no filesystem state is created or modified.
func Sanitize(name, rootAbs string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "\x00") {
		return "", ErrInvalidPath
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") || filepath.IsAbs(name) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.FieldsFunc(name, isSeparator) {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}

	realRoot, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", ErrNotFound
	}
	candidate := filepath.Join(rootAbs, filepath.FromSlash(name))
	realPath, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", ErrInvalidPath
	}
	if realPath != realRoot && !strings.HasPrefix(realPath, realRoot+string(filepath.Separator)) {
		return "", ErrAccessDenied
	}

	st, err := os.Stat(realPath)
	if err != nil || !st.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return realPath, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
