package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexGate(t *testing.T) {
	ctx := context.Background()

	t.Run("同じカップルは直列化される", func(t *testing.T) {
		gate := NewKeyedMutexGate()
		release, err := gate.Acquire(ctx, "c1")
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			r, err := gate.Acquire(ctx, "c1")
			assert.NoError(t, err)
			close(acquired)
			r()
		}()

		select {
		case <-acquired:
			t.Fatal("解放前にロックが取得された")
		case <-time.After(50 * time.Millisecond):
		}

		release()
		select {
		case <-acquired:
		case <-time.After(time.Second):
			t.Fatal("解放後もロックが取得できない")
		}
	})

	t.Run("別のカップルは待たない", func(t *testing.T) {
		gate := NewKeyedMutexGate()
		release, err := gate.Acquire(ctx, "c1")
		require.NoError(t, err)
		defer release()

		done := make(chan struct{})
		go func() {
			r, err := gate.Acquire(ctx, "c2")
			assert.NoError(t, err)
			r()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("別カップルのロックがブロックされた")
		}
	})

	t.Run("解放を二重に呼んでも安全で、使い終わったキーは消える", func(t *testing.T) {
		gate := NewKeyedMutexGate()
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r, err := gate.Acquire(ctx, "c1")
				assert.NoError(t, err)
				r()
				r()
			}()
		}
		wg.Wait()

		gate.mu.Lock()
		defer gate.mu.Unlock()
		assert.Empty(t, gate.locks)
	})
}
