package repository

import (
	"context"

	"Couple-App/internal/domain/model"
)

// CouplesRepository カップル情報の参照（読み取り専用）
type CouplesRepository interface {
	// GetByID 無ければ model.ErrNotFound
	GetByID(ctx context.Context, coupleID string) (*model.Couple, error)
}
