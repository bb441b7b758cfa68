// Package file keeps the town snapshot as a single JSON document on disk.
package file

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/fsutil"
	"github.com/jmdejong/cadastrs/internal/model"
)

//go:embed town.schema.json
var schemaSource string

// Store implements TownRepository on a JSON file. Only the latest snapshot is kept.
type Store struct {
	// Path is written by Save and read by Load unless OldPath is set.
	Path string
	// OldPath, when set, is where Load reads the previous snapshot from.
	OldPath string

	schema *jsonschema.Schema
}

// New returns a store writing to path.
func New(path, oldPath string) (*Store, error) {
	schema, err := jsonschema.CompileString("town.schema.json", schemaSource)
	if err != nil {
		return nil, fmt.Errorf("compile town schema: %w", err)
	}
	return &Store{Path: path, OldPath: oldPath, schema: schema}, nil
}

func (s *Store) source() string {
	if s.OldPath != "" {
		return s.OldPath
	}
	return s.Path
}

// Load reads and validates the snapshot file.
func (s *Store) Load(_ context.Context) (*cadastre.Cadastre, error) {
	path := s.source()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var c cadastre.Cadastre
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, errs.ErrInvalidSnapshot, err)
	}
	return &c, nil
}

// Validate checks raw snapshot JSON against the town schema.
func (s *Store) Validate(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	if err := s.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	return nil
}

// Save atomically replaces Path with c. meta is not persisted.
func (s *Store) Save(_ context.Context, c *cadastre.Cadastre, _ model.SnapshotMeta) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.Path, b, 0o644)
}
