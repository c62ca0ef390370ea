package repository

import (
	"context"
	"database/sql"
	"errors"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/infrastructure/database"
)

type PostgresCouplesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresCouplesRepository(client *database.PostgreSQLClient) repository.CouplesRepository {
	return &PostgresCouplesRepository{
		client: client,
	}
}

func (r *PostgresCouplesRepository) GetByID(ctx context.Context, coupleID string) (*model.Couple, error) {
	query := `SELECT couple_id, user1_id, user2_id FROM couples WHERE couple_id = $1`

	var c model.Couple
	err := r.client.DB.QueryRowContext(ctx, query, coupleID).Scan(&c.CoupleID, &c.User1ID, &c.User2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storageError("カップル情報の取得失敗", err)
	}
	return &c, nil
}
