// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Parcel source format errors. They are scoped to a single candidate parcel.
var (
	// ErrEmptyFile indicates a parcel source without any lines.
	ErrEmptyFile = errors.New("empty file")

	// ErrPositionLine indicates that the first line is not two integers separated by whitespace.
	ErrPositionLine = errors.New("first line must be two integers separated by whitespace")

	// ErrLinkLine indicates a link definition that is not "<key> <url>".
	ErrLinkLine = errors.New("invalid link line")

	// ErrPositionFormat indicates a coordinate that could not be parsed.
	ErrPositionFormat = errors.New("position must be two whitespace-separated integers")

	// ErrParsePanic indicates a parser panic that was recovered for one candidate.
	ErrParsePanic = errors.New("parser panic")
)

// Snapshot and storage sentinels.
var (
	// ErrBadPlaceKey indicates a snapshot place key that is not "x,y".
	ErrBadPlaceKey = errors.New("bad place key")

	// ErrNotFound indicates that no snapshot has been stored yet.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSnapshot indicates persisted snapshot data that fails validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrSnapshotExists indicates a snapshot id that is already stored.
	ErrSnapshotExists = errors.New("snapshot already exists")

	// ErrUnknownStore indicates an unsupported snapshot store driver.
	ErrUnknownStore = errors.New("unknown store")

	// ErrNoHistory indicates a store that keeps only the latest snapshot.
	ErrNoHistory = errors.New("store keeps no history")
)
