// Package share models the shared folder: the single directory whose regular
// files are listed, downloadable, and the destination for uploads.
package share

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"quickdrop/internal/fsutil"
)

// ErrEmptyName is returned when a client filename reduces to nothing after
// the safety filter.
var ErrEmptyName = errors.New("empty filename")

// FileEntry is a read-only view of one regular file in the shared folder.
// It is recomputed on every listing; there is no persisted identity beyond
// the filesystem.
type FileEntry struct {
	Name        string `json:"name"`
	SizeBytes   int64  `json:"sizeBytes"`
	DisplaySize string `json:"size"`
	Icon        string `json:"icon"`
}

// Folder is the shared directory, created at startup if absent.
type Folder struct {
	root string
}

// New resolves root to an absolute path and creates it if missing.
func New(root string) (*Folder, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Folder{root: abs}, nil
}

// Root returns the absolute shared-folder path.
func (f *Folder) Root() string { return f.root }

// List enumerates the regular files directly under the folder, sorted by
// case-insensitive name. Subdirectories are not recursed. A read failure
// degrades to an empty listing rather than an error.
func (f *Folder) List() []FileEntry {
	ents, err := os.ReadDir(f.root)
	if err != nil {
		logrus.WithError(err).WithField("root", f.root).Warn("listing shared folder failed")
		return []FileEntry{}
	}
	out := make([]FileEntry, 0, len(ents))
	for _, e := range ents {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, FileEntry{
			Name:        e.Name(),
			SizeBytes:   info.Size(),
			DisplaySize: FormatSize(info.Size()),
			Icon:        IconFor(e.Name()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// ReserveName applies the safety filter to desired and returns the first name
// not taken by an existing file, deriving "{stem}_{n}{ext}" for n = 1, 2, ...
// on collision.
//
// The returned name is only guaranteed distinct from files that existed at
// reservation time; two racing requests for the same desired name can both
// observe it free. Save closes that window with an exclusive create.
func (f *Folder) ReserveName(desired string) (string, error) {
	name := fsutil.SafeFilename(desired)
	if name == "" {
		return "", ErrEmptyName
	}
	if _, err := os.Lstat(filepath.Join(f.root, name)); os.IsNotExist(err) {
		return name, nil
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, err := os.Lstat(filepath.Join(f.root, cand)); os.IsNotExist(err) {
			return cand, nil
		}
	}
}

// Save reserves a collision-free name for desired, creates the file
// exclusively, and streams src into it. On a lost creation race the
// reservation is retried. A write failure removes the partial file and is
// returned to the caller; the stored name is returned on success.
func (f *Folder) Save(desired string, src io.Reader) (string, error) {
	for {
		name, err := f.ReserveName(desired)
		if err != nil {
			return "", err
		}
		path := filepath.Join(f.root, name)
		dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", err
		}
		if _, err := io.Copy(dst, src); err != nil {
			_ = dst.Close()
			_ = os.Remove(path)
			return "", err
		}
		if err := dst.Close(); err != nil {
			_ = os.Remove(path)
			return "", err
		}
		return name, nil
	}
}

// FormatSize renders a byte count in the largest 1024-based unit where the
// scaled value is below 1024, from B through TB.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

var icons = map[string]string{
	"pdf": "📕",
	"doc": "📘", "docx": "📘",
	"xls": "📗", "xlsx": "📗",
	"ppt": "📙", "pptx": "📙",
	"jpg": "🖼️", "jpeg": "🖼️", "png": "🖼️", "gif": "🖼️", "webp": "🖼️",
	"mp4": "🎬", "mov": "🎬", "avi": "🎬", "mkv": "🎬",
	"mp3": "🎵", "wav": "🎵", "flac": "🎵", "m4a": "🎵",
	"zip": "📦", "rar": "📦", "7z": "📦", "tar": "📦", "gz": "📦",
	"txt": "📄", "md": "📄",
	"py": "🐍", "js": "💛", "html": "🌐", "css": "🎨",
	"apk": "🤖",
}

// IconFor returns the display icon for a filename by extension.
func IconFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ic, ok := icons[ext]; ok {
		return ic
	}
	return "📄"
}
