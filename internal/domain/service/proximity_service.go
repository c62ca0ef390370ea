package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/metrics"
)

// ProximityService はカップルの2人が近くにいるかを判定し、共在チェックポイントを記録する
type ProximityService interface {
	CheckNearby(ctx context.Context, coupleID string) (*model.NearbyResult, error)
}

type proximityService struct {
	couplesRepo     repository.CouplesRepository
	samplesRepo     repository.LocationSamplesRepository
	checkpointsRepo repository.CheckpointsRepository
	gate            CheckpointGate
	now             func() time.Time
}

// NewProximityService は新しいProximityServiceインスタンスを作成
// clock が nil の場合は time.Now を使う
func NewProximityService(
	couplesRepo repository.CouplesRepository,
	samplesRepo repository.LocationSamplesRepository,
	checkpointsRepo repository.CheckpointsRepository,
	gate CheckpointGate,
	clock func() time.Time,
) ProximityService {
	if gate == nil {
		gate = NewKeyedMutexGate()
	}
	if clock == nil {
		clock = time.Now
	}
	return &proximityService{
		couplesRepo:     couplesRepo,
		samplesRepo:     samplesRepo,
		checkpointsRepo: checkpointsRepo,
		gate:            gate,
		now:             clock,
	}
}

// CheckNearby 近接判定の主要処理
func (s *proximityService) CheckNearby(ctx context.Context, coupleID string) (*model.NearbyResult, error) {
	// Step 1: カップルのメンバーを解決
	couple, err := s.couplesRepo.GetByID(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("カップル情報の取得に失敗: %w", err)
	}

	// Step 2: 両メンバーの最新位置を並行取得
	latestA, latestB, err := s.fetchLatestPair(ctx, couple.User1ID, couple.User2ID)
	if err != nil {
		if errors.Is(err, model.ErrDataUnavailable) {
			metrics.NearbyChecksTotal.WithLabelValues("data_unavailable").Inc()
			return &model.NearbyResult{DataAvailable: false}, nil
		}
		return nil, fmt.Errorf("最新位置の取得に失敗: %w", err)
	}

	// Step 3, 4: 距離を計算して判定
	distance := helper.DistanceBetween(latestA.Location(), latestB.Location())
	result := &model.NearbyResult{
		IsNearby:      isNearby(distance),
		Distance:      &distance,
		DataAvailable: true,
	}

	if !result.IsNearby {
		metrics.NearbyChecksTotal.WithLabelValues("apart").Inc()
		return result, nil
	}
	metrics.NearbyChecksTotal.WithLabelValues("nearby").Inc()

	// Step 5: チェックポイントの記録はベストエフォート。失敗しても判定結果は返す
	written, err := s.recordCheckpoint(ctx, couple.CoupleID, latestA.Location())
	if err != nil {
		metrics.CheckpointsTotal.WithLabelValues("failed").Inc()
		log.Printf("⚠️ チェックポイントの記録に失敗 (couple: %s): %v", couple.CoupleID, err)
	}
	result.CheckpointWritten = written

	return result, nil
}

// isNearby 閾値ちょうどは近くにいるとみなす
func isNearby(distance float64) bool {
	return distance <= model.ProximityThresholdMeters
}

// fetchLatestPair 2人の最新サンプルを並行で取得する
func (s *proximityService) fetchLatestPair(ctx context.Context, userA, userB string) (*model.LocationSample, *model.LocationSample, error) {
	type latestResult struct {
		sample *model.LocationSample
		err    error
	}

	var wg sync.WaitGroup
	results := make([]latestResult, 2)
	for i, userID := range []string{userA, userB} {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			sample, err := s.samplesRepo.Latest(ctx, id)
			results[idx] = latestResult{sample: sample, err: err}
		}(i, userID)
	}
	wg.Wait()

	// ストレージ障害を「データなし」より優先して返す
	var notFound error
	for _, r := range results {
		if r.err == nil {
			continue
		}
		if !errors.Is(r.err, model.ErrNotFound) {
			return nil, nil, r.err
		}
		notFound = r.err
	}
	if notFound != nil {
		return nil, nil, fmt.Errorf("%w: %w", model.ErrDataUnavailable, notFound)
	}
	return results[0].sample, results[1].sample, nil
}

// recordCheckpoint 直近 CheckpointDedupWindow 内にチェックポイントが無ければ書き込む
func (s *proximityService) recordCheckpoint(ctx context.Context, coupleID string, at model.Location) (bool, error) {
	release, err := s.gate.Acquire(ctx, coupleID)
	if err != nil {
		return false, fmt.Errorf("チェックポイントロックの取得に失敗: %w", err)
	}
	defer release()

	now := s.now()
	last, err := s.checkpointsRepo.MostRecent(ctx, coupleID)
	switch {
	case err == nil:
		if !last.CapturedAt.Before(now.Add(-model.CheckpointDedupWindow)) {
			metrics.CheckpointsTotal.WithLabelValues("suppressed").Inc()
			return false, nil
		}
	case errors.Is(err, model.ErrNotFound):
	default:
		return false, fmt.Errorf("直近チェックポイントの取得に失敗: %w", err)
	}

	checkpoint := &model.CoLocationCheckpoint{
		ID:         uuid.New().String(),
		CoupleID:   coupleID,
		Latitude:   at.Latitude,
		Longitude:  at.Longitude,
		CapturedAt: now,
	}
	if err := s.checkpointsRepo.Append(ctx, checkpoint); err != nil {
		return false, fmt.Errorf("チェックポイントの保存に失敗: %w", err)
	}

	metrics.CheckpointsTotal.WithLabelValues("written").Inc()
	log.Printf("📍 チェックポイントを記録 (couple: %s, lat: %f, lng: %f)", coupleID, at.Latitude, at.Longitude)
	return true, nil
}
