package database

import (
	"context"
	"fmt"
	"log"
)

// schemaStatements 初回起動時に必要なテーブルとインデックス
// couples はペアリングサービスが管理するが、単体起動のために存在だけ保証する
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS postgis`,
	`CREATE TABLE IF NOT EXISTS couples (
		couple_id TEXT PRIMARY KEY,
		user1_id TEXT NOT NULL UNIQUE,
		user2_id TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS location_samples (
		seq BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL UNIQUE,
		owner_user_id TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geom GEOMETRY(Point, 4326) NOT NULL,
		captured_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_location_samples_owner_time
		ON location_samples (owner_user_id, captured_at DESC, seq DESC)`,
	`CREATE TABLE IF NOT EXISTS colocation_checkpoints (
		seq BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL UNIQUE,
		couple_id TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geom GEOMETRY(Point, 4326) NOT NULL,
		captured_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_colocation_checkpoints_couple_time
		ON colocation_checkpoints (couple_id, captured_at DESC, seq DESC)`,
}

// EnsureSchema テーブルとインデックスを作成する（既存なら何もしない）
func (pc *PostgreSQLClient) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := pc.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("スキーマ作成に失敗 (statement %d): %w", i, err)
		}
	}
	log.Printf("✅ スキーマ確認完了 (%d statements)", len(schemaStatements))
	return nil
}
