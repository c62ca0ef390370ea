// Package memory はテストとローカル実行用のインメモリリポジトリ
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
)

// LocationSamplesRepository 挿入順を保持するサンプル台帳
type LocationSamplesRepository struct {
	mu      sync.RWMutex
	samples []model.LocationSample
}

func NewLocationSamplesRepository() *LocationSamplesRepository {
	return &LocationSamplesRepository{}
}

var _ repository.LocationSamplesRepository = (*LocationSamplesRepository)(nil)

func (r *LocationSamplesRepository) Append(ctx context.Context, sample *model.LocationSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, *sample)
	return nil
}

func (r *LocationSamplesRepository) Latest(ctx context.Context, userID string) (*model.LocationSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.LocationSample
	for i := range r.samples {
		s := &r.samples[i]
		if s.OwnerUserID != userID {
			continue
		}
		// 同時刻なら後から挿入したものを優先
		if latest == nil || !s.CapturedAt.Before(latest.CapturedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, model.ErrNotFound
	}
	found := *latest
	return &found, nil
}

func (r *LocationSamplesRepository) Range(ctx context.Context, userIDs []string, start, end time.Time) ([]model.LocationSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owners := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		owners[id] = struct{}{}
	}

	result := make([]model.LocationSample, 0)
	for _, s := range r.samples {
		if _, ok := owners[s.OwnerUserID]; !ok {
			continue
		}
		if s.CapturedAt.Before(start) || !s.CapturedAt.Before(end) {
			continue
		}
		result = append(result, s)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.Before(result[j].CapturedAt)
	})
	return result, nil
}

func (r *LocationSamplesRepository) Recent(ctx context.Context, userID string, limit int) ([]model.LocationSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.LocationSample, 0)
	for i := len(r.samples) - 1; i >= 0; i-- {
		if r.samples[i].OwnerUserID == userID {
			result = append(result, r.samples[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.After(result[j].CapturedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
