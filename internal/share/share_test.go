package share

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFolder(t *testing.T) *Folder {
	t.Helper()
	f, err := New(t.TempDir())
	require.NoError(t, err)
	return f
}

func TestNewCreatesMissingFolder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shared", "drop")
	f, err := New(root)
	require.NoError(t, err)

	st, err := os.Stat(f.Root())
	require.NoError(t, err)
	assert.True(t, st.IsDir())
}

func TestReserveNameCollisionSequence(t *testing.T) {
	f := newFolder(t)

	for i, want := range []string{"photo.jpg", "photo_1.jpg", "photo_2.jpg"} {
		name, err := f.Save("photo.jpg", strings.NewReader("data"))
		require.NoError(t, err, "upload %d", i)
		assert.Equal(t, want, name)
	}
}

func TestReserveNameNoExtension(t *testing.T) {
	f := newFolder(t)
	_, err := f.Save("README", strings.NewReader("a"))
	require.NoError(t, err)

	name, err := f.ReserveName("README")
	require.NoError(t, err)
	assert.Equal(t, "README_1", name)
}

func TestSaveFiltersTraversal(t *testing.T) {
	f := newFolder(t)
	name, err := f.Save("../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", name)

	_, err = os.Stat(filepath.Join(f.Root(), "escape.txt"))
	assert.NoError(t, err)
}

func TestSaveEmptyName(t *testing.T) {
	f := newFolder(t)
	_, err := f.Save("", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = f.Save("..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSaveWritesContent(t *testing.T) {
	f := newFolder(t)
	name, err := f.Save("note.txt", strings.NewReader("hello world"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(f.Root(), name))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))
}

func TestListFlatAndSorted(t *testing.T) {
	f := newFolder(t)
	for _, name := range []string{"banana.txt", "Apple.txt", "cherry.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(f.Root(), name), []byte("x"), 0o644))
	}
	// Subdirectories are invisible to the listing.
	require.NoError(t, os.Mkdir(filepath.Join(f.Root(), "subdir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.Root(), "subdir", "nested.txt"), []byte("x"), 0o644))

	entries := f.List()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Apple.txt", "banana.txt", "cherry.txt"}, names)
}

func TestListUnreadableDegradesToEmpty(t *testing.T) {
	f := &Folder{root: filepath.Join(t.TempDir(), "does-not-exist")}
	assert.Empty(t, f.List())
}

func TestListEntryFields(t *testing.T) {
	f := newFolder(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.Root(), "a.pdf"), make([]byte, 2048), 0o644))

	entries := f.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "a.pdf", entries[0].Name)
	assert.Equal(t, int64(2048), entries[0].SizeBytes)
	assert.Equal(t, "2.0 KB", entries[0].DisplaySize)
	assert.Equal(t, "📕", entries[0].Icon)
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.0 B"},
		{5, "5.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{1 << 30, "1.0 GB"},
		{1 << 40, "1.0 TB"},
		{5 << 40, "5.0 TB"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatSize(c.in), "size %d", c.in)
	}
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "🖼️", IconFor("pic.JPG"))
	assert.Equal(t, "🎵", IconFor("song.mp3"))
	assert.Equal(t, "🤖", IconFor("app.apk"))
	assert.Equal(t, "📄", IconFor("mystery.xyz"))
	assert.Equal(t, "📄", IconFor("noext"))
}
