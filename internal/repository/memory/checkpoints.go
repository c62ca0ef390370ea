package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
)

// CheckpointsRepository インメモリの共在チェックポイント台帳
type CheckpointsRepository struct {
	mu          sync.RWMutex
	checkpoints []model.CoLocationCheckpoint
}

func NewCheckpointsRepository() *CheckpointsRepository {
	return &CheckpointsRepository{}
}

var _ repository.CheckpointsRepository = (*CheckpointsRepository)(nil)

func (r *CheckpointsRepository) Append(ctx context.Context, checkpoint *model.CoLocationCheckpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints = append(r.checkpoints, *checkpoint)
	return nil
}

func (r *CheckpointsRepository) MostRecent(ctx context.Context, coupleID string) (*model.CoLocationCheckpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *model.CoLocationCheckpoint
	for i := range r.checkpoints {
		c := &r.checkpoints[i]
		if c.CoupleID != coupleID {
			continue
		}
		if latest == nil || !c.CapturedAt.Before(latest.CapturedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, model.ErrNotFound
	}
	found := *latest
	return &found, nil
}

func (r *CheckpointsRepository) Range(ctx context.Context, coupleID string, start, end time.Time) ([]model.CoLocationCheckpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.CoLocationCheckpoint, 0)
	for _, c := range r.checkpoints {
		if c.CoupleID != coupleID {
			continue
		}
		if c.CapturedAt.Before(start) || !c.CapturedAt.Before(end) {
			continue
		}
		result = append(result, c)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CapturedAt.Before(result[j].CapturedAt)
	})
	return result, nil
}

// Count テスト用: カップルのチェックポイント件数
func (r *CheckpointsRepository) Count(coupleID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.checkpoints {
		if c.CoupleID == coupleID {
			n++
		}
	}
	return n
}
