package repository

import (
	"context"

	"statusboard/internal/domain"
)

// Snapshot persists the two state documents: the device map and the session
// list. Each save rewrites its document wholesale; there is no append log and
// no incremental diffing. Loading a document that was never written yields
// the empty value, not an error.
type Snapshot interface {
	SaveDevices(ctx context.Context, devices map[string]domain.DeviceRecord) error
	LoadDevices(ctx context.Context) (map[string]domain.DeviceRecord, error)
	SaveSessions(ctx context.Context, sessions []domain.SessionRecord) error
	LoadSessions(ctx context.Context) ([]domain.SessionRecord, error)
}
