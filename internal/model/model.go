// Package model defines the records passed between sources, services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/parcel"
)

// Candidate is the raw text of one parcel claim, before parsing.
type Candidate struct {
	Owner parcel.Owner
	Path  string // source file, for diagnostics
	Text  string
}

// Rejection records a candidate that failed to parse.
type Rejection struct {
	Owner parcel.Owner
	Path  string
	Err   error
}

// SnapshotMeta describes a persisted town snapshot.
type SnapshotMeta struct {
	ID        uuid.UUID             // rebuild run id
	Digest    string                // hex BLAKE2b-256 of the snapshot JSON
	Seed      background.Background // seed stored in the snapshot
	Places    int                   // number of claimed plots
	CreatedAt time.Time
}

// RebuildReport summarises one update run.
type RebuildReport struct {
	Meta     SnapshotMeta
	Seen     int // candidates read from sources
	Parsed   int // candidates that parsed
	Rejected []Rejection
	Placed   int    // parcels present in the new snapshot
	Archive  string // archive file, empty when archiving is off
	Duration time.Duration
}
