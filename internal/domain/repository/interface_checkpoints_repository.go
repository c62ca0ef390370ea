package repository

import (
	"context"
	"time"

	"Couple-App/internal/domain/model"
)

// CheckpointsRepository カップル単位の共在チェックポイント台帳
type CheckpointsRepository interface {
	Append(ctx context.Context, checkpoint *model.CoLocationCheckpoint) error
	// MostRecent 無ければ model.ErrNotFound
	MostRecent(ctx context.Context, coupleID string) (*model.CoLocationCheckpoint, error)
	// Range [start, end) を captured_at 昇順で返す
	Range(ctx context.Context, coupleID string, start, end time.Time) ([]model.CoLocationCheckpoint, error)
}
