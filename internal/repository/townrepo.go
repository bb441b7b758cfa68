// Package repository declares the storage contracts used by services.
package repository

import (
	"context"

	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/model"
)

// TownRepository persists town snapshots. Every Save adds a snapshot; Load
// returns the latest one.
type TownRepository interface {
	// Load returns the most recent snapshot, or errs.ErrNotFound when none is stored.
	Load(ctx context.Context) (*cadastre.Cadastre, error)

	// Save stores c as the most recent snapshot.
	Save(ctx context.Context, c *cadastre.Cadastre, meta model.SnapshotMeta) error
}

// SnapshotHistory is implemented by stores that keep every saved snapshot.
type SnapshotHistory interface {
	// History lists the metadata of up to limit snapshots, newest first.
	History(ctx context.Context, limit int) ([]model.SnapshotMeta, error)
}
