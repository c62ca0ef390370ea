package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
	"Couple-App/internal/domain/service"
	"Couple-App/internal/metrics"
)

// CoupleLocationUseCase GPS記録・近接判定・訪問場所クラスタリングの入口
type CoupleLocationUseCase interface {
	// RecordLocation 生GPSサンプルを記録する
	RecordLocation(ctx context.Context, userID string, latitude, longitude float64) (*model.LocationSample, error)

	// CheckNearby カップルの2人が近くにいるかを判定する
	CheckNearby(ctx context.Context, coupleID string) (*model.NearbyResult, error)

	// ClusterDay 指定日 (YYYY-MM-DD) のチェックポイントをクラスタリングする
	ClusterDay(ctx context.Context, coupleID, day string) (*model.ClusterDayResponse, error)

	// DatesWithCheckpoints 指定月 (YYYY-MM) にチェックポイントがある日を昇順で返す
	DatesWithCheckpoints(ctx context.Context, coupleID, yearMonth string) ([]int, error)

	// RecentLocations ユーザーの直近サンプルを新しい順で返す
	RecentLocations(ctx context.Context, userID string, limit int) ([]model.LocationSample, error)

	// CoupleTrail 指定日の両メンバーの生サンプルを返す
	CoupleTrail(ctx context.Context, coupleID, day string) (*model.CoupleTrail, error)
}

type coupleLocationUseCaseImpl struct {
	couplesRepo       repository.CouplesRepository
	samplesRepo       repository.LocationSamplesRepository
	checkpointsRepo   repository.CheckpointsRepository
	proximityService  service.ProximityService
	clusteringService service.ClusteringService
	location          *time.Location
	now               func() time.Time
}

// NewCoupleLocationUseCase は新しいCoupleLocationUseCaseインスタンスを作成
// location は日付境界の基準タイムゾーン、clock が nil なら time.Now
func NewCoupleLocationUseCase(
	couplesRepo repository.CouplesRepository,
	samplesRepo repository.LocationSamplesRepository,
	checkpointsRepo repository.CheckpointsRepository,
	proximityService service.ProximityService,
	clusteringService service.ClusteringService,
	location *time.Location,
	clock func() time.Time,
) CoupleLocationUseCase {
	if location == nil {
		location = helper.ServiceLocation(model.DefaultServiceUTCOffsetHours)
	}
	if clock == nil {
		clock = time.Now
	}
	return &coupleLocationUseCaseImpl{
		couplesRepo:       couplesRepo,
		samplesRepo:       samplesRepo,
		checkpointsRepo:   checkpointsRepo,
		proximityService:  proximityService,
		clusteringService: clusteringService,
		location:          location,
		now:               clock,
	}
}

func (u *coupleLocationUseCaseImpl) RecordLocation(ctx context.Context, userID string, latitude, longitude float64) (*model.LocationSample, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if math.IsNaN(latitude) || math.IsNaN(longitude) {
		return nil, &model.FieldError{Field: "location", Message: "座標にNaNは指定できません"}
	}
	loc := model.Location{Latitude: latitude, Longitude: longitude}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	sample := &model.LocationSample{
		ID:          uuid.New().String(),
		OwnerUserID: userID,
		Latitude:    latitude,
		Longitude:   longitude,
		CapturedAt:  u.now().UTC(),
	}
	if err := u.samplesRepo.Append(ctx, sample); err != nil {
		return nil, fmt.Errorf("GPSサンプルの記録に失敗: %w", err)
	}

	metrics.SamplesRecordedTotal.Inc()
	log.Printf("📡 GPSサンプル記録 (user: %s, lat: %f, lng: %f)", userID, latitude, longitude)
	return sample, nil
}

func (u *coupleLocationUseCaseImpl) CheckNearby(ctx context.Context, coupleID string) (*model.NearbyResult, error) {
	if err := requireID("couple_id", coupleID); err != nil {
		return nil, err
	}

	result, err := u.proximityService.CheckNearby(ctx, coupleID)
	if err != nil {
		return nil, err
	}

	if result.DataAvailable {
		log.Printf("🔍 近接判定 (couple: %s) isNearby: %v, distance: %.1fm", coupleID, result.IsNearby, *result.Distance)
	} else {
		log.Printf("🔍 近接判定 (couple: %s) 位置情報が揃っていません", coupleID)
	}
	return result, nil
}

func (u *coupleLocationUseCaseImpl) ClusterDay(ctx context.Context, coupleID, day string) (*model.ClusterDayResponse, error) {
	if err := requireID("couple_id", coupleID); err != nil {
		return nil, err
	}
	start, end, err := helper.DayWindow(day, u.location)
	if err != nil {
		return nil, err
	}
	if _, err := u.couplesRepo.GetByID(ctx, coupleID); err != nil {
		return nil, fmt.Errorf("カップル情報の取得に失敗: %w", err)
	}

	checkpoints, err := u.checkpointsRepo.Range(ctx, coupleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("チェックポイントの取得に失敗: %w", err)
	}

	began := time.Now()
	result := u.clusteringService.Cluster(checkpoints)
	metrics.ClusteringDurationMs.Observe(float64(time.Since(began).Microseconds()) / 1000)
	metrics.ClusteringPointsTotal.Observe(float64(len(checkpoints)))

	log.Printf("🗺️ クラスタリング完了 (couple: %s, date: %s) points: %d, clusters: %d, noise: %d",
		coupleID, day, len(checkpoints), len(result.Clusters), len(result.Noise))

	return &model.ClusterDayResponse{
		CoupleID: coupleID,
		Date:     day,
		Clusters: result.Clusters,
	}, nil
}

func (u *coupleLocationUseCaseImpl) DatesWithCheckpoints(ctx context.Context, coupleID, yearMonth string) ([]int, error) {
	if err := requireID("couple_id", coupleID); err != nil {
		return nil, err
	}
	start, end, err := helper.MonthWindow(yearMonth, u.location)
	if err != nil {
		return nil, err
	}
	if _, err := u.couplesRepo.GetByID(ctx, coupleID); err != nil {
		return nil, fmt.Errorf("カップル情報の取得に失敗: %w", err)
	}

	checkpoints, err := u.checkpointsRepo.Range(ctx, coupleID, start, end)
	if err != nil {
		return nil, fmt.Errorf("チェックポイントの取得に失敗: %w", err)
	}

	times := make([]time.Time, len(checkpoints))
	for i, c := range checkpoints {
		times[i] = c.CapturedAt
	}
	return helper.DaysOfMonth(times, u.location), nil
}

func (u *coupleLocationUseCaseImpl) RecentLocations(ctx context.Context, userID string, limit int) ([]model.LocationSample, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > model.RecentLocationsLimit {
		limit = model.RecentLocationsLimit
	}

	samples, err := u.samplesRepo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("直近GPSサンプルの取得に失敗: %w", err)
	}
	return samples, nil
}

func (u *coupleLocationUseCaseImpl) CoupleTrail(ctx context.Context, coupleID, day string) (*model.CoupleTrail, error) {
	if err := requireID("couple_id", coupleID); err != nil {
		return nil, err
	}
	start, end, err := helper.DayWindow(day, u.location)
	if err != nil {
		return nil, err
	}
	couple, err := u.couplesRepo.GetByID(ctx, coupleID)
	if err != nil {
		return nil, fmt.Errorf("カップル情報の取得に失敗: %w", err)
	}

	samples, err := u.samplesRepo.Range(ctx, []string{couple.User1ID, couple.User2ID}, start, end)
	if err != nil {
		return nil, fmt.Errorf("期間内GPSサンプルの取得に失敗: %w", err)
	}

	trail := &model.CoupleTrail{
		CoupleID: coupleID,
		Date:     day,
		Samples: map[string][]model.LocationSample{
			couple.User1ID: {},
			couple.User2ID: {},
		},
	}
	for _, s := range samples {
		trail.Samples[s.OwnerUserID] = append(trail.Samples[s.OwnerUserID], s)
	}
	return trail, nil
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &model.FieldError{Field: field, Message: "必須です"}
	}
	return nil
}
