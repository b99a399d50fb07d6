package session

import (
	"context"

	"github.com/matst80/slask-shelf/pkg/store"
)

// Mirror shares session snapshots between replicas.
type Mirror interface {
	Load(ctx context.Context, sessionId string) (store.Snapshot, bool, error)
	Save(ctx context.Context, sessionId string, snapshot store.Snapshot) error
	Delete(ctx context.Context, sessionId string) error
}
