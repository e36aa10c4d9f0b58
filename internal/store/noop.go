package store

import (
	"context"

	"DCADashboard/internal/model"
)

// NoopStore is used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveSeries(context.Context, Kind, string, []model.Observation) error {
	return nil
}

func (n *NoopStore) LoadSeries(context.Context, Kind, string) ([]model.Observation, error) {
	return nil, ErrNotFound
}

func (n *NoopStore) Close() error { return nil }
