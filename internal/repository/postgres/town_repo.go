package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/model"
)

// TownRepo implements TownRepository using PostgreSQL. Every rebuild adds a row.
type TownRepo struct{ db *DB }

// NewTownRepo constructs a town snapshot repository.
func NewTownRepo(db *DB) *TownRepo { return &TownRepo{db: db} }

// Load returns the most recently created snapshot.
func (r *TownRepo) Load(ctx context.Context) (*cadastre.Cadastre, error) {
	const q = `SELECT body FROM town_snapshots ORDER BY created_at DESC, seq DESC LIMIT 1`
	var body []byte
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var c cadastre.Cadastre
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	return &c, nil
}

// Save inserts c as a new snapshot row keyed by meta.ID.
func (r *TownRepo) Save(ctx context.Context, c *cadastre.Cadastre, meta model.SnapshotMeta) error {
	body, err := json.Marshal(c)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO town_snapshots (id, seed, digest, places, body, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.Pool.Exec(ctx, q, meta.ID, int64(meta.Seed), meta.Digest, meta.Places, body, meta.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("snapshot %s: %w", meta.ID, errs.ErrSnapshotExists)
	}
	return err
}

// History lists snapshot metadata, newest first.
func (r *TownRepo) History(ctx context.Context, limit int) ([]model.SnapshotMeta, error) {
	const q = `
SELECT id, seed, digest, places, created_at
FROM town_snapshots
ORDER BY created_at DESC, seq DESC
LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SnapshotMeta
	for rows.Next() {
		var (
			m    model.SnapshotMeta
			seed int64
		)
		if err = rows.Scan(&m.ID, &seed, &m.Digest, &m.Places, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Seed = background.Background(seed)
		out = append(out, m)
	}
	return out, rows.Err()
}
