package store

import (
	"context"
	"errors"

	"DCADashboard/internal/model"
)

// ErrNotFound is returned when no series has been stored under a key.
var ErrNotFound = errors.New("series not found")

// Kind separates price series from macro series sharing a code.
type Kind string

const (
	KindPrice Kind = "price"
	KindMacro Kind = "macro"
)

// Store keeps the last successfully fetched raw series per symbol so a
// refresh can fall back to it when a provider is down. It holds inputs
// only; evaluations are never persisted.
type Store interface {
	SaveSeries(ctx context.Context, kind Kind, code string, obs []model.Observation) error
	LoadSeries(ctx context.Context, kind Kind, code string) ([]model.Observation, error)
	Close() error
}
