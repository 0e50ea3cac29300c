package mocks

import (
	"context"

	"github.com/flitskaart/flitskaart-api/internal/store"
)

// MockSnapshotStore implements store.SnapshotStore for testing
type MockSnapshotStore struct {
	// Function fields for customizable behavior
	SaveFn func(ctx context.Context, snap store.Snapshot) error
	LoadFn func(ctx context.Context) (store.Snapshot, error)

	// Data for default implementation
	Snapshot  store.Snapshot
	SaveCalls int
	SaveError error
	LoadError error
}

// NewMockSnapshotStore creates a new mock store holding an empty snapshot
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{}
}

// Save implements the SnapshotStore interface
func (m *MockSnapshotStore) Save(ctx context.Context, snap store.Snapshot) error {
	m.SaveCalls++

	if m.SaveFn != nil {
		return m.SaveFn(ctx, snap)
	}

	if m.SaveError != nil {
		return m.SaveError
	}

	m.Snapshot = snap
	return nil
}

// Load implements the SnapshotStore interface
func (m *MockSnapshotStore) Load(ctx context.Context) (store.Snapshot, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}

	if m.LoadError != nil {
		return store.Snapshot{}, m.LoadError
	}

	return m.Snapshot, nil
}
