package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"Couple-App/internal/domain/model"
)

const (
	BackendPostgres  = "postgres"
	BackendSupabase  = "supabase"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Config アプリケーション設定
type Config struct {
	Port string

	// DatabaseURL が空の場合は SUPABASE_URL と SUPABASE_DB_PASSWORD から組み立てる
	DatabaseURL        string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseDBPassword string

	// CoupleDirectory カップル情報の参照先 (postgres | supabase | memory)
	CoupleDirectory string
	// LedgerBackend チェックポイント台帳の保存先 (postgres | firestore | memory)
	LedgerBackend string
	// SampleStore 生サンプルの保存先 (postgres | memory)
	SampleStore string

	FirestoreProjectID string

	RedisHost string
	RedisPort string
	RedisPass string
	RedisDB   int

	// ServiceUTCOffsetHours 日付境界を決める固定オフセット
	ServiceUTCOffsetHours int
}

// Load .env と環境変数から設定を読み込む
func Load() (Config, error) {
	// .env が無い環境（Cloud Run など）では環境変数のみを使う
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseDBPassword: os.Getenv("SUPABASE_DB_PASSWORD"),
		CoupleDirectory:    strings.ToLower(getEnv("COUPLE_DIRECTORY", BackendPostgres)),
		LedgerBackend:      strings.ToLower(getEnv("LEDGER_BACKEND", BackendPostgres)),
		SampleStore:        strings.ToLower(getEnv("SAMPLE_STORE", BackendPostgres)),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		RedisHost:          os.Getenv("REDIS_HOST"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPass:          os.Getenv("REDIS_PASS"),
	}

	var err error
	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 25); err != nil {
		return Config{}, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.ServiceUTCOffsetHours, err = getEnvInt("SERVICE_TZ_OFFSET_HOURS", model.DefaultServiceUTCOffsetHours); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 設定値の組み合わせを検証する
func (c Config) Validate() error {
	if c.ServiceUTCOffsetHours < -12 || c.ServiceUTCOffsetHours > 14 {
		return fmt.Errorf("SERVICE_TZ_OFFSET_HOURSは-12から14の範囲で指定してください: %d", c.ServiceUTCOffsetHours)
	}
	if !oneOf(c.CoupleDirectory, BackendPostgres, BackendSupabase, BackendMemory) {
		return fmt.Errorf("COUPLE_DIRECTORYが不正です: %s", c.CoupleDirectory)
	}
	if !oneOf(c.LedgerBackend, BackendPostgres, BackendFirestore, BackendMemory) {
		return fmt.Errorf("LEDGER_BACKENDが不正です: %s", c.LedgerBackend)
	}
	if !oneOf(c.SampleStore, BackendPostgres, BackendMemory) {
		return fmt.Errorf("SAMPLE_STOREが不正です: %s", c.SampleStore)
	}
	if c.CoupleDirectory == BackendSupabase && (c.SupabaseURL == "" || c.SupabaseAnonKey == "") {
		return fmt.Errorf("COUPLE_DIRECTORY=supabaseにはSUPABASE_URLとSUPABASE_ANON_KEYが必要です")
	}
	if c.NeedsPostgres() && c.DatabaseURL == "" && (c.SupabaseURL == "" || c.SupabaseDBPassword == "") {
		return fmt.Errorf("PostgreSQLを使う場合はDATABASE_URLまたはSUPABASE_URLとSUPABASE_DB_PASSWORDが必要です")
	}
	if c.LedgerBackend == BackendFirestore && c.FirestoreProjectID == "" {
		return fmt.Errorf("LEDGER_BACKEND=firestoreにはFIRESTORE_PROJECT_IDが必要です")
	}
	return nil
}

// NeedsPostgres いずれかのコンポーネントがPostgreSQLを使うか
func (c Config) NeedsPostgres() bool {
	return c.CoupleDirectory == BackendPostgres || c.LedgerBackend == BackendPostgres || c.SampleStore == BackendPostgres
}

// RedisEnabled 分散ロックにRedisを使うか
func (c Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

// RedisAddr host:port 形式のアドレス
func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%sは整数で指定してください: %q", key, v)
	}
	return n, nil
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
