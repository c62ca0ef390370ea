package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// PoolOptions コネクションプール設定
type PoolOptions struct {
	MaxOpenConns int
	MaxIdleConns int
}

// BuildSupabaseDSN SupabaseのURLとDBパスワードから接続文字列を構築
func BuildSupabaseDSN(supabaseURL, password string) (string, error) {
	if supabaseURL == "" {
		return "", fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if password == "" {
		return "", fmt.Errorf("SUPABASE_DB_PASSWORD環境変数が設定されていません")
	}
	if len(supabaseURL) <= len("https://") {
		return "", fmt.Errorf("SUPABASE_URLの形式が不正です: %s", supabaseURL)
	}

	// https://xxx.supabase.co -> xxx.supabase.co
	host := supabaseURL[len("https://"):]

	// ポート6543はSupabaseのコネクションプーラー
	return fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, password,
	), nil
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient(dsn string, pool PoolOptions) (*PostgreSQLClient, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// 接続テスト
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// NewPostgreSQLClientWithRetry 起動直後のDBに備えてリトライ付きで接続する
func NewPostgreSQLClientWithRetry(dsn string, pool PoolOptions, attempts int, delay time.Duration) (*PostgreSQLClient, error) {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		client, err := NewPostgreSQLClient(dsn, pool)
		if err == nil {
			return client, nil
		}
		lastErr = err
		log.Printf("⏳ PostgreSQL接続リトライ中 (%d/%d): %v", i, attempts, err)
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("PostgreSQL接続に%d回失敗しました: %w", attempts, lastErr)
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.Ping()
}
