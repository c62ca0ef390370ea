package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/infrastructure/database"
)

// SupabaseCouplesRepository ペアリングサービスが管理する couples テーブルを PostgREST 経由で参照する
type SupabaseCouplesRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseCouplesRepository(client *database.SupabaseClient) repository.CouplesRepository {
	return &SupabaseCouplesRepository{
		client: client,
	}
}

func (r *SupabaseCouplesRepository) GetByID(ctx context.Context, coupleID string) (*model.Couple, error) {
	var couples []model.Couple
	data, count, err := r.client.GetClient().From("couples").
		Select("couple_id,user1_id,user2_id", "exact", false).
		Eq("couple_id", coupleID).
		Execute()
	if err != nil {
		return nil, storageError("カップル情報の取得失敗", err)
	}
	_ = count

	if err := json.Unmarshal(data, &couples); err != nil {
		return nil, fmt.Errorf("カップル情報のJSONアンマーシャル失敗: %w", err)
	}

	if len(couples) == 0 {
		return nil, model.ErrNotFound
	}

	return &couples[0], nil
}
