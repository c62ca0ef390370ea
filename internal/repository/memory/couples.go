package memory

import (
	"context"
	"sync"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
)

// CouplesRepository インメモリのカップル台帳
type CouplesRepository struct {
	mu      sync.RWMutex
	couples map[string]model.Couple
}

func NewCouplesRepository(couples ...model.Couple) *CouplesRepository {
	r := &CouplesRepository{couples: make(map[string]model.Couple)}
	for _, c := range couples {
		r.couples[c.CoupleID] = c
	}
	return r
}

var _ repository.CouplesRepository = (*CouplesRepository)(nil)

// Put カップルを登録する（ペアリング処理の代わり）
func (r *CouplesRepository) Put(c model.Couple) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.couples[c.CoupleID] = c
}

func (r *CouplesRepository) GetByID(ctx context.Context, coupleID string) (*model.Couple, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.couples[coupleID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &c, nil
}
