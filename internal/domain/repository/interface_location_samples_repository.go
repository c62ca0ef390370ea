package repository

import (
	"context"
	"time"

	"Couple-App/internal/domain/model"
)

// LocationSamplesRepository 生GPSサンプルの追記専用ストア
type LocationSamplesRepository interface {
	Append(ctx context.Context, sample *model.LocationSample) error
	// Latest captured_at が最大のサンプル。同時刻なら後から書いたもの。無ければ model.ErrNotFound
	Latest(ctx context.Context, userID string) (*model.LocationSample, error)
	// Range [start, end) のサンプルを captured_at 昇順で返す
	Range(ctx context.Context, userIDs []string, start, end time.Time) ([]model.LocationSample, error)
	// Recent 新しい順に最大 limit 件
	Recent(ctx context.Context, userID string, limit int) ([]model.LocationSample, error)
}
