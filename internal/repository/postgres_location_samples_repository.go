package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/infrastructure/database"
)

type PostgresLocationSamplesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresLocationSamplesRepository(client *database.PostgreSQLClient) repository.LocationSamplesRepository {
	return &PostgresLocationSamplesRepository{
		client: client,
	}
}

func (r *PostgresLocationSamplesRepository) Append(ctx context.Context, sample *model.LocationSample) error {
	query := `
		INSERT INTO location_samples (id, owner_user_id, latitude, longitude, geom, captured_at)
		VALUES ($1, $2, $3, $4, ST_GeomFromText($5, 4326), $6)`

	_, err := r.client.DB.ExecContext(ctx, query,
		sample.ID, sample.OwnerUserID, sample.Latitude, sample.Longitude,
		LocationToWKT(sample.Location()), sample.CapturedAt.UTC())
	if err != nil {
		return storageError("GPSサンプルの保存失敗", err)
	}
	return nil
}

func (r *PostgresLocationSamplesRepository) Latest(ctx context.Context, userID string) (*model.LocationSample, error) {
	query := `
		SELECT id, owner_user_id, latitude, longitude, captured_at
		FROM location_samples
		WHERE owner_user_id = $1
		ORDER BY captured_at DESC, seq DESC
		LIMIT 1`

	row := r.client.DB.QueryRowContext(ctx, query, userID)

	var s model.LocationSample
	if err := row.Scan(&s.ID, &s.OwnerUserID, &s.Latitude, &s.Longitude, &s.CapturedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storageError("最新GPSサンプルの取得失敗", err)
	}
	s.CapturedAt = s.CapturedAt.UTC()
	return &s, nil
}

func (r *PostgresLocationSamplesRepository) Range(ctx context.Context, userIDs []string, start, end time.Time) ([]model.LocationSample, error) {
	query := `
		SELECT id, owner_user_id, latitude, longitude, captured_at
		FROM location_samples
		WHERE owner_user_id = ANY($1) AND captured_at >= $2 AND captured_at < $3
		ORDER BY captured_at ASC, seq ASC`

	rows, err := r.client.DB.QueryContext(ctx, query, pq.Array(userIDs), start.UTC(), end.UTC())
	if err != nil {
		return nil, storageError("期間内GPSサンプルの取得失敗", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func (r *PostgresLocationSamplesRepository) Recent(ctx context.Context, userID string, limit int) ([]model.LocationSample, error) {
	query := `
		SELECT id, owner_user_id, latitude, longitude, captured_at
		FROM location_samples
		WHERE owner_user_id = $1
		ORDER BY captured_at DESC, seq DESC
		LIMIT $2`

	rows, err := r.client.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, storageError("直近GPSサンプルの取得失敗", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

func scanSamples(rows *sql.Rows) ([]model.LocationSample, error) {
	samples := make([]model.LocationSample, 0)
	for rows.Next() {
		var s model.LocationSample
		if err := rows.Scan(&s.ID, &s.OwnerUserID, &s.Latitude, &s.Longitude, &s.CapturedAt); err != nil {
			return nil, storageError("GPSサンプルのスキャンエラー", err)
		}
		s.CapturedAt = s.CapturedAt.UTC()
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("GPSサンプルの読み込みエラー", err)
	}
	return samples, nil
}
