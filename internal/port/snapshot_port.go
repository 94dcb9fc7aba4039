package port

import (
	"context"
)

// SnapshotStore is a durable string-keyed store, partitioned by owner.
type SnapshotStore interface {
	Get(ctx context.Context, ownerID, key string) (string, bool, error)
	Set(ctx context.Context, ownerID, key, value string) error
}
