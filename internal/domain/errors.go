package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrSnapshotNotFound  = errors.New("graph snapshot not found")
	ErrEmptyDocument     = errors.New("document has no extractable text layout")
	ErrNoChunks          = errors.New("no chunks available for graph construction")
	ErrSeedNotFound      = errors.New("seed id not present in graph snapshot")
	ErrInvalidPayload    = errors.New("request payload failed validation")
	ErrUnsupportedSource = errors.New("unsupported document source")
)
