// Package app は設定に従って各バックエンドを組み立てる
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"Couple-App/internal/config"
	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/domain/service"
	"Couple-App/internal/handler"
	"Couple-App/internal/infrastructure/cache"
	"Couple-App/internal/infrastructure/database"
	"Couple-App/internal/infrastructure/firestore"
	repoimpl "Couple-App/internal/repository"
	"Couple-App/internal/repository/memory"
	"Couple-App/internal/usecase"
)

// Container 組み立て済みの依存関係
type Container struct {
	Config  config.Config
	UseCase usecase.CoupleLocationUseCase

	Postgres  *database.PostgreSQLClient
	Supabase  *database.SupabaseClient
	Firestore *firestore.FirestoreClient
	Redis     *redis.Client

	Couples     repository.CouplesRepository
	Samples     repository.LocationSamplesRepository
	Checkpoints repository.CheckpointsRepository
}

// Build 設定からリポジトリ・サービス・ユースケースを構築する
func Build(ctx context.Context, cfg config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if cfg.NeedsPostgres() {
		dsn := cfg.DatabaseURL
		if dsn == "" {
			var err error
			if dsn, err = database.BuildSupabaseDSN(cfg.SupabaseURL, cfg.SupabaseDBPassword); err != nil {
				return nil, err
			}
		}
		pool := database.PoolOptions{MaxOpenConns: cfg.DBMaxOpenConns, MaxIdleConns: cfg.DBMaxIdleConns}
		pg, err := database.NewPostgreSQLClientWithRetry(dsn, pool, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		c.Postgres = pg
		if err := pg.EnsureSchema(ctx); err != nil {
			c.Close()
			return nil, err
		}
		log.Println("✅ PostgreSQL connection successful!")
	}

	switch cfg.CoupleDirectory {
	case config.BackendSupabase:
		sb, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Supabase = sb
		c.Couples = repoimpl.NewSupabaseCouplesRepository(sb)
	case config.BackendMemory:
		c.Couples = memory.NewCouplesRepository()
	default:
		c.Couples = repoimpl.NewPostgresCouplesRepository(c.Postgres)
	}

	switch cfg.SampleStore {
	case config.BackendMemory:
		c.Samples = memory.NewLocationSamplesRepository()
	default:
		c.Samples = repoimpl.NewPostgresLocationSamplesRepository(c.Postgres)
	}

	switch cfg.LedgerBackend {
	case config.BackendFirestore:
		fs, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Firestore = fs
		c.Checkpoints = repoimpl.NewFirestoreCheckpointsRepository(fs.GetClient())
	case config.BackendMemory:
		c.Checkpoints = memory.NewCheckpointsRepository()
	default:
		c.Checkpoints = repoimpl.NewPostgresCheckpointsRepository(c.Postgres)
	}

	var gate service.CheckpointGate = service.NewKeyedMutexGate()
	if cfg.RedisEnabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr(), cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Redis = rdb
		gate = cache.NewRedisCheckpointGate(rdb)
		log.Printf("🔒 Redisチェックポイントロックを使用 (%s)", cfg.RedisAddr())
	}

	proximity := service.NewProximityService(c.Couples, c.Samples, c.Checkpoints, gate, nil)
	clustering := service.NewClusteringService()
	c.UseCase = usecase.NewCoupleLocationUseCase(
		c.Couples, c.Samples, c.Checkpoints,
		proximity, clustering,
		helper.ServiceLocation(cfg.ServiceUTCOffsetHours),
		nil,
	)

	log.Printf("🧩 構成: couples=%s samples=%s ledger=%s tz=UTC%+d",
		cfg.CoupleDirectory, cfg.SampleStore, cfg.LedgerBackend, cfg.ServiceUTCOffsetHours)
	return c, nil
}

// HealthChecks 有効なバックエンドの疎通確認関数
func (c *Container) HealthChecks() map[string]handler.HealthChecker {
	checks := map[string]handler.HealthChecker{}
	if c.Postgres != nil {
		checks["postgres"] = c.Postgres.HealthCheck
	}
	if c.Supabase != nil {
		checks["supabase"] = c.Supabase.HealthCheck
	}
	if c.Redis != nil {
		rdb := c.Redis
		checks["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

// Close 開いた接続をすべて閉じる
func (c *Container) Close() error {
	var errs []error
	if c.Postgres != nil {
		errs = append(errs, c.Postgres.Close())
	}
	if c.Firestore != nil {
		errs = append(errs, c.Firestore.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("接続のクローズに失敗: %w", err)
	}
	return nil
}
