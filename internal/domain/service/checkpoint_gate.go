package service

import (
	"context"
	"sync"
)

// CheckpointGate はカップル単位でチェックポイントの確認と書き込みを直列化する
type CheckpointGate interface {
	// Acquire はロックを取得し、解放関数を返す
	Acquire(ctx context.Context, coupleID string) (release func(), err error)
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutexGate プロセス内のカップル別ミューテックス
type KeyedMutexGate struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

// NewKeyedMutexGate は新しいKeyedMutexGateインスタンスを作成
func NewKeyedMutexGate() *KeyedMutexGate {
	return &KeyedMutexGate{locks: make(map[string]*keyedLock)}
}

func (g *KeyedMutexGate) Acquire(ctx context.Context, coupleID string) (func(), error) {
	g.mu.Lock()
	l, ok := g.locks[coupleID]
	if !ok {
		l = &keyedLock{}
		g.locks[coupleID] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			g.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(g.locks, coupleID)
			}
			g.mu.Unlock()
		})
	}, nil
}
