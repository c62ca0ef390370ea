package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/infrastructure/database"
)

type PostgresCheckpointsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresCheckpointsRepository(client *database.PostgreSQLClient) repository.CheckpointsRepository {
	return &PostgresCheckpointsRepository{
		client: client,
	}
}

func (r *PostgresCheckpointsRepository) Append(ctx context.Context, checkpoint *model.CoLocationCheckpoint) error {
	query := `
		INSERT INTO colocation_checkpoints (id, couple_id, latitude, longitude, geom, captured_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromText($5, 4326), $6)`

	_, err := r.client.DB.ExecContext(ctx, query,
		checkpoint.ID, checkpoint.CoupleID, checkpoint.Latitude, checkpoint.Longitude,
		LocationToWKT(checkpoint.Location()), checkpoint.CapturedAt.UTC())
	if err != nil {
		return storageError("チェックポイントの保存失敗", err)
	}
	return nil
}

func (r *PostgresCheckpointsRepository) MostRecent(ctx context.Context, coupleID string) (*model.CoLocationCheckpoint, error) {
	query := `
		SELECT id, couple_id, latitude, longitude, captured_at
		FROM colocation_checkpoints
		WHERE couple_id = $1
		ORDER BY captured_at DESC, seq DESC
		LIMIT 1`

	row := r.client.DB.QueryRowContext(ctx, query, coupleID)

	var c model.CoLocationCheckpoint
	if err := row.Scan(&c.ID, &c.CoupleID, &c.Latitude, &c.Longitude, &c.CapturedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storageError("直近チェックポイントの取得失敗", err)
	}
	c.CapturedAt = c.CapturedAt.UTC()
	return &c, nil
}

func (r *PostgresCheckpointsRepository) Range(ctx context.Context, coupleID string, start, end time.Time) ([]model.CoLocationCheckpoint, error) {
	query := `
		SELECT id, couple_id, latitude, longitude, captured_at
		FROM colocation_checkpoints
		WHERE couple_id = $1 AND captured_at >= $2 AND captured_at < $3
		ORDER BY captured_at ASC, seq ASC`

	rows, err := r.client.DB.QueryContext(ctx, query, coupleID, start.UTC(), end.UTC())
	if err != nil {
		return nil, storageError("期間内チェックポイントの取得失敗", err)
	}
	defer rows.Close()

	checkpoints := make([]model.CoLocationCheckpoint, 0)
	for rows.Next() {
		var c model.CoLocationCheckpoint
		if err := rows.Scan(&c.ID, &c.CoupleID, &c.Latitude, &c.Longitude, &c.CapturedAt); err != nil {
			return nil, storageError("チェックポイントのスキャンエラー", err)
		}
		c.CapturedAt = c.CapturedAt.UTC()
		checkpoints = append(checkpoints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("チェックポイントの読み込みエラー", err)
	}
	return checkpoints, nil
}
