package storage

import (
	"context"

	"lenderScope/internal/model"
)

// Sink records synchronized position snapshots.
type Sink interface {
	PutSnapshot(ctx context.Context, snapshot model.PositionSnapshot) error
}
