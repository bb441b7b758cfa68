package migrate

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmdejong/cadastrs/migrations"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Contains(t, names, "00001_town_snapshots.sql")

	b, err := fs.ReadFile(migrations.FS, "00001_town_snapshots.sql")
	require.NoError(t, err)
	require.Contains(t, string(b), "-- +goose Up")
	require.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS town_snapshots")
}

func TestEmbeddedMigrations_InsertOrderColumn(t *testing.T) {
	b, err := fs.ReadFile(migrations.FS, "00002_town_snapshots_seq.sql")
	require.NoError(t, err)
	require.Contains(t, string(b), "ADD COLUMN IF NOT EXISTS seq BIGSERIAL")
	require.Contains(t, string(b), "-- +goose Down")
}
