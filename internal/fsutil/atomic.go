// Package fsutil writes output files so readers never observe a partial file.
package fsutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// TempName is the sibling file an atomic write goes through: ".<name>.tmp".
func TempName(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+".tmp")
}

// WriteAtomic streams fill into a temporary sibling of path and renames it
// over path once fill and the flush succeed. On failure path is untouched and
// the temporary file is removed.
func WriteAtomic(path string, perm os.FileMode, fill func(w io.Writer) error) (err error) {
	tmp := TempName(path)
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, ignoreMissing(os.Remove(tmp)))
		}
	}()

	bw := bufio.NewWriterSize(f, 64*1024)
	if err = fill(bw); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = bw.Flush(); err != nil {
		return multierr.Append(err, f.Close())
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteFileAtomic is WriteAtomic for an in-memory body.
func WriteFileAtomic(path string, body []byte, perm os.FileMode) error {
	return WriteAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(body)
		return err
	})
}

func ignoreMissing(err error) error {
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
