package test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/infrastructure/database"
)

// setupTestEnvironment プロジェクトルートの .env を読み込む
func setupTestEnvironment() {
	_ = godotenv.Load("../.env")
}

// setupTestPostgres 統合テスト用のPostgreSQLクライアントを用意する（リトライ付き）
// 接続情報が無ければテストをスキップする
func setupTestPostgres(t *testing.T) (*database.PostgreSQLClient, func()) {
	t.Helper()
	setupTestEnvironment()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		var err error
		dsn, err = database.BuildSupabaseDSN(os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_DB_PASSWORD"))
		if err != nil {
			t.Skip("DATABASE_URLまたはSupabaseの接続情報が設定されていません。統合テストをスキップします。")
		}
	}

	// 接続テストでは短いリトライ間隔を使用
	client, err := database.NewPostgreSQLClientWithRetry(dsn, database.PoolOptions{MaxOpenConns: 5, MaxIdleConns: 5}, 3, time.Second)
	if err != nil {
		t.Fatalf("データベース接続に失敗しました: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.EnsureSchema(ctx); err != nil {
		client.Close()
		t.Fatalf("スキーマの作成に失敗しました: %v", err)
	}

	return client, func() { client.Close() }
}

// newTestCouple 他のテストと衝突しないカップルを作る
func newTestCouple() model.Couple {
	suffix := uuid.New().String()
	return model.Couple{
		CoupleID: "it-couple-" + suffix,
		User1ID:  "it-user1-" + suffix,
		User2ID:  "it-user2-" + suffix,
	}
}

// insertTestCouple couples テーブルにテスト用のカップルを登録する
func insertTestCouple(ctx context.Context, client *database.PostgreSQLClient, c model.Couple) error {
	_, err := client.DB.ExecContext(ctx,
		`INSERT INTO couples (couple_id, user1_id, user2_id) VALUES ($1, $2, $3)`,
		c.CoupleID, c.User1ID, c.User2ID)
	if err != nil {
		return fmt.Errorf("テスト用カップルの登録に失敗: %w", err)
	}
	return nil
}

// cleanupTestCouple テストで作成した行を削除する
func cleanupTestCouple(ctx context.Context, client *database.PostgreSQLClient, c model.Couple) {
	client.DB.ExecContext(ctx, `DELETE FROM colocation_checkpoints WHERE couple_id = $1`, c.CoupleID)
	client.DB.ExecContext(ctx, `DELETE FROM location_samples WHERE owner_user_id = ANY(ARRAY[$1, $2])`, c.User1ID, c.User2ID)
	client.DB.ExecContext(ctx, `DELETE FROM couples WHERE couple_id = $1`, c.CoupleID)
}
