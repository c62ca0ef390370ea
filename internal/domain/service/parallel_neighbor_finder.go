package service

import (
	"sync"
)

// ParallelNeighborFinder は全点の近傍リストを並行で事前計算する
type ParallelNeighborFinder struct {
	maxGoroutines int
}

// NewParallelNeighborFinder は新しいParallelNeighborFinderインスタンスを作成
func NewParallelNeighborFinder(maxGoroutines int) *ParallelNeighborFinder {
	if maxGoroutines < 1 {
		maxGoroutines = 1
	}
	return &ParallelNeighborFinder{maxGoroutines: maxGoroutines}
}

// FindAll は index を使って各点の近傍を計算する。結果の i 番目は点 i の近傍
func (f *ParallelNeighborFinder) FindAll(index neighborIndex, n int) [][]int {
	result := make([][]int, n)
	if n == 0 {
		return result
	}

	chunk := (n + f.maxGoroutines - 1) / f.maxGoroutines

	// セマフォで同時実行数を制限
	semaphore := make(chan struct{}, f.maxGoroutines)
	var wg sync.WaitGroup

	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			// 各goroutineは自分の担当範囲だけに書き込む
			for i := start; i < end; i++ {
				result[i] = index.neighbors(i)
			}
		}(start, end)
	}

	wg.Wait()
	return result
}
