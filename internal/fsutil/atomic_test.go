package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempName(t *testing.T) {
	require.Equal(t, filepath.Join("out", ".town.html.tmp"), TempName(filepath.Join("out", "town.html")))
	require.Equal(t, ".town.txt.tmp", TempName("town.txt"))
}

func TestWriteFileAtomic_CreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "town.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o644))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	_, err = os.Stat(TempName(path))
	require.True(t, os.IsNotExist(err), "temporary file left behind")
}

func TestWriteAtomic_FailureKeepsOldContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "town.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("old"), 0o644))

	boom := errors.New("render failed")
	err := WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old", string(b))

	_, err = os.Stat(TempName(path))
	require.True(t, os.IsNotExist(err), "temporary file left behind")
}

func TestWriteAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "town.txt")
	require.Error(t, WriteFileAtomic(path, []byte("x"), 0o644))
}
