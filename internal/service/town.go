// Package service orchestrates town rebuilds: loading the previous snapshot,
// merging candidate parcels, persisting, archiving and rendering.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"runtime/debug"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmdejong/cadastrs/internal/archive"
	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/crypto"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/fsutil"
	"github.com/jmdejong/cadastrs/internal/model"
	"github.com/jmdejong/cadastrs/internal/parcel"
	"github.com/jmdejong/cadastrs/internal/repository"
)

// TownService defines the operations behind the cadastre commands.
type TownService interface {
	// Init stores an empty town with the initial seed.
	Init(ctx context.Context) (model.SnapshotMeta, error)
	// Update merges candidates into the stored town, saves and renders the result.
	Update(ctx context.Context, candidates iter.Seq[model.Candidate]) (model.RebuildReport, error)
	// Render renders the stored town without changing it.
	Render(ctx context.Context) error
	// Restore makes an archived snapshot the current one and renders it.
	Restore(ctx context.Context, archivePath string) (model.SnapshotMeta, error)
	// History lists stored snapshots, newest first.
	History(ctx context.Context, limit int) ([]model.SnapshotMeta, error)
}

// Outputs says where rendered files go. An empty path disables that output.
type Outputs struct {
	Text     string
	HTML     string
	Viewport cadastre.Viewport
}

// ParseFunc turns candidate text into a parcel.
type ParseFunc func(text string, owner parcel.Owner) (parcel.Parcel, error)

type TownServiceImpl struct {
	repo    repository.TownRepository
	out     Outputs
	log     *zap.Logger
	archive *archive.Writer
	parse   ParseFunc
	now     func() time.Time
	newID   func() (uuid.UUID, error)
}

// Option customises a TownServiceImpl.
type Option func(*TownServiceImpl)

// WithArchive keeps a compressed copy of every saved snapshot.
func WithArchive(w archive.Writer) Option {
	return func(s *TownServiceImpl) { s.archive = &w }
}

// WithParser replaces parcel.Parse.
func WithParser(p ParseFunc) Option {
	return func(s *TownServiceImpl) { s.parse = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TownServiceImpl) { s.now = now }
}

// WithIDs replaces the random run id generator.
func WithIDs(newID func() (uuid.UUID, error)) Option {
	return func(s *TownServiceImpl) { s.newID = newID }
}

// NewTownService constructs TownService with required dependencies.
func NewTownService(repo repository.TownRepository, out Outputs, log *zap.Logger, opts ...Option) *TownServiceImpl {
	s := &TownServiceImpl{
		repo:  repo,
		out:   out,
		log:   log,
		parse: parcel.Parse,
		now:   time.Now,
		newID: uuid.NewV4,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init stores an empty town. Nothing is rendered.
func (s *TownServiceImpl) Init(ctx context.Context) (model.SnapshotMeta, error) {
	meta, _, err := s.persist(ctx, cadastre.Empty())
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	s.log.Info("town initialised", zap.Stringer("id", meta.ID), zap.String("digest", meta.Digest))
	return meta, nil
}

// Update rebuilds the town. A candidate that fails to parse is logged and
// left out; it never aborts the rebuild.
func (s *TownServiceImpl) Update(ctx context.Context, candidates iter.Seq[model.Candidate]) (model.RebuildReport, error) {
	start := s.now()
	var rep model.RebuildReport

	old, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return rep, fmt.Errorf("load previous town (run init first): %w", err)
		}
		return rep, fmt.Errorf("load previous town: %w", err)
	}

	parcels := func(yield func(parcel.Parcel) bool) {
		for c := range candidates {
			if ctx.Err() != nil {
				return
			}
			rep.Seen++
			p, err := s.parseCandidate(c)
			if err != nil {
				rep.Rejected = append(rep.Rejected, model.Rejection{Owner: c.Owner, Path: c.Path, Err: err})
				s.log.Warn("failed parsing parcel",
					zap.String("path", c.Path),
					zap.Stringer("owner", c.Owner),
					zap.Error(err),
				)
				continue
			}
			rep.Parsed++
			if !yield(p) {
				return
			}
		}
	}
	town := cadastre.Build(old, parcels)
	if err := ctx.Err(); err != nil {
		return rep, err
	}
	rep.Placed = town.Len()

	meta, archived, err := s.persist(ctx, town)
	if err != nil {
		return rep, err
	}
	rep.Meta, rep.Archive = meta, archived

	if err := s.render(ctx, town); err != nil {
		return rep, err
	}
	rep.Duration = s.now().Sub(start)

	s.log.Info("town updated",
		zap.Stringer("id", meta.ID),
		zap.Int("seen", rep.Seen),
		zap.Int("parsed", rep.Parsed),
		zap.Int("rejected", len(rep.Rejected)),
		zap.Int("placed", rep.Placed),
		zap.Int64("seed", int64(meta.Seed)),
		zap.String("digest", meta.Digest),
		zap.Duration("took", rep.Duration),
	)
	return rep, nil
}

// Render renders the stored town.
func (s *TownServiceImpl) Render(ctx context.Context) error {
	town, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load town: %w", err)
	}
	return s.render(ctx, town)
}

// Restore saves an archived snapshot as the current town under a new id and renders it.
func (s *TownServiceImpl) Restore(ctx context.Context, archivePath string) (model.SnapshotMeta, error) {
	town, digest, err := archive.Read(archivePath)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	meta, _, err := s.persist(ctx, town)
	if err != nil {
		return model.SnapshotMeta{}, err
	}
	if meta.Digest != digest {
		s.log.Debug("archive re-encoded", zap.String("archive_digest", digest), zap.String("digest", meta.Digest))
	}
	if err := s.render(ctx, town); err != nil {
		return meta, err
	}
	s.log.Info("town restored", zap.String("archive", archivePath), zap.Stringer("id", meta.ID))
	return meta, nil
}

// History lists stored snapshots when the store keeps them.
func (s *TownServiceImpl) History(ctx context.Context, limit int) ([]model.SnapshotMeta, error) {
	h, ok := s.repo.(repository.SnapshotHistory)
	if !ok {
		return nil, errs.ErrNoHistory
	}
	if limit <= 0 {
		limit = 20
	}
	return h.History(ctx, limit)
}

// parseCandidate runs the parser, turning a panic into an error.
func (s *TownServiceImpl) parseCandidate(c model.Candidate) (p parcel.Parcel, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic",
				zap.Any("reason", r),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", c.Path),
			)
			err = fmt.Errorf("%w: %v", errs.ErrParsePanic, r)
		}
	}()
	return s.parse(c.Text, c.Owner)
}

// persist saves town under a fresh id and archives it when enabled.
func (s *TownServiceImpl) persist(ctx context.Context, town *cadastre.Cadastre) (model.SnapshotMeta, string, error) {
	body, err := json.Marshal(town)
	if err != nil {
		return model.SnapshotMeta{}, "", err
	}
	id, err := s.newID()
	if err != nil {
		return model.SnapshotMeta{}, "", err
	}
	meta := model.SnapshotMeta{
		ID:        id,
		Digest:    crypto.Digest(body),
		Seed:      town.Background(),
		Places:    town.Len(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, town, meta); err != nil {
		return model.SnapshotMeta{}, "", fmt.Errorf("save town: %w", err)
	}

	if s.archive == nil {
		return meta, "", nil
	}
	path, size, err := s.archive.Write(body, meta)
	if err != nil {
		return meta, "", fmt.Errorf("archive town: %w", err)
	}
	s.log.Debug("snapshot archived",
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(size))),
		zap.String("raw", humanize.Bytes(uint64(len(body)))),
	)
	removed, err := s.archive.Prune()
	if err != nil {
		s.log.Warn("pruning archive failed", zap.String("dir", s.archive.Dir), zap.Error(err))
	} else if len(removed) > 0 {
		s.log.Debug("archive pruned", zap.Strings("removed", removed))
	}
	return meta, path, nil
}

// render writes the text and HTML renders side by side.
func (s *TownServiceImpl) render(ctx context.Context, town *cadastre.Cadastre) error {
	g, _ := errgroup.WithContext(ctx)
	if s.out.Text != "" {
		g.Go(func() error {
			return fsutil.WriteAtomic(s.out.Text, 0o644, func(w io.Writer) error {
				return town.RenderText(w, s.out.Viewport)
			})
		})
	}
	if s.out.HTML != "" {
		g.Go(func() error {
			return fsutil.WriteAtomic(s.out.HTML, 0o644, func(w io.Writer) error {
				return town.RenderHTML(w, s.out.Viewport)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("render town: %w", err)
	}
	return nil
}
