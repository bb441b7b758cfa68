// Package archive keeps a zstd-compressed copy of every town snapshot.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/crypto"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/fsutil"
	"github.com/jmdejong/cadastrs/internal/model"
)

const (
	prefix = "town-"
	suffix = ".json.zst"
)

// Name returns the archive file name for a snapshot: town-<unix>-<id>.json.zst.
func Name(meta model.SnapshotMeta) string {
	return fmt.Sprintf("%s%d-%s%s", prefix, meta.CreatedAt.Unix(), meta.ID, suffix)
}

// Writer stores archives in Dir. Keep > 0 limits the number of archives retained.
type Writer struct {
	Dir  string
	Keep int
}

// Write compresses body, the snapshot JSON, into Dir and returns the archive path
// and its compressed size.
func (a Writer) Write(body []byte, meta model.SnapshotMeta) (string, int64, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", 0, err
	}
	path := filepath.Join(a.Dir, Name(meta))
	var size int64
	err := fsutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		enc, err := zstd.NewWriter(cw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return err
		}
		if _, err := enc.Write(body); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		size = cw.n
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return path, size, nil
}

// Prune removes the oldest archives beyond Keep and returns the removed paths.
func (a Writer) Prune() ([]string, error) {
	if a.Keep <= 0 {
		return nil, nil
	}
	paths, err := List(a.Dir)
	if err != nil || len(paths) <= a.Keep {
		return nil, err
	}
	stale := paths[:len(paths)-a.Keep]
	for _, p := range stale {
		if err := os.Remove(p); err != nil {
			return nil, err
		}
	}
	return stale, nil
}

// List returns the archives in dir, oldest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.SortFunc(out, func(a, b string) int { return compareNames(filepath.Base(a), filepath.Base(b)) })
	return out, nil
}

// compareNames orders by the unix timestamp embedded in the name, then lexically.
func compareNames(a, b string) int {
	ta, tb := stamp(a), stamp(b)
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	return strings.Compare(a, b)
}

func stamp(name string) string {
	s, _, _ := strings.Cut(strings.TrimPrefix(name, prefix), "-")
	return s
}

// Read decompresses an archive and returns the snapshot and the digest of its JSON.
func Read(path string) (*cadastre.Cadastre, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, "", err
	}
	defer dec.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(dec); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	var c cadastre.Cadastre
	if err := json.Unmarshal(buf.Bytes(), &c); err != nil {
		return nil, "", fmt.Errorf("%s: %w: %v", path, errs.ErrInvalidSnapshot, err)
	}
	return &c, crypto.Digest(buf.Bytes()), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
