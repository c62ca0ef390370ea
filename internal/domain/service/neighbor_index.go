package service

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/model"
)

const (
	rtreeDimensions  = 2
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	rtreePointTol    = 1e-9

	// searchMargin 緯度経度の矩形で近傍円を確実に包含させるための倍率
	searchMargin = 1.5
)

// neighborIndex eps 以内の点のインデックスを昇順で返す（自身を含む）
type neighborIndex interface {
	neighbors(i int) []int
}

// bruteForceIndex 全点との距離を計算する O(n) 検索
type bruteForceIndex struct {
	points []model.Location
	eps    float64
}

func newBruteForceIndex(points []model.Location, eps float64) *bruteForceIndex {
	return &bruteForceIndex{points: points, eps: eps}
}

func (b *bruteForceIndex) neighbors(i int) []int {
	p := b.points[i]
	result := make([]int, 0)
	for j, q := range b.points {
		if helper.DistanceBetween(p, q) <= b.eps {
			result = append(result, j)
		}
	}
	return result
}

// indexedPoint rtreego.Spatial の実装
type indexedPoint struct {
	idx  int
	rect *rtreego.Rect
}

func (p *indexedPoint) Bounds() *rtreego.Rect {
	return p.rect
}

// rtreeIndex R-tree で候補を絞り込み、haversine で最終判定する
// 経度180度をまたぐ場合や極付近では全点検索にフォールバックする
type rtreeIndex struct {
	points   []model.Location
	eps      float64
	tree     *rtreego.Rtree
	fallback *bruteForceIndex
}

func newRtreeIndex(points []model.Location, eps float64) *rtreeIndex {
	tree := rtreego.NewTree(rtreeDimensions, rtreeMinChildren, rtreeMaxChildren)
	for i, p := range points {
		tree.Insert(&indexedPoint{
			idx:  i,
			rect: rtreego.Point{p.Latitude, p.Longitude}.ToRect(rtreePointTol),
		})
	}
	return &rtreeIndex{
		points:   points,
		eps:      eps,
		tree:     tree,
		fallback: newBruteForceIndex(points, eps),
	}
}

func (r *rtreeIndex) neighbors(i int) []int {
	p := r.points[i]

	latDelta := helper.MetersToLatDegrees(r.eps) * searchMargin
	maxAbsLat := math.Min(90, math.Abs(p.Latitude)+latDelta)
	cosLat := math.Cos(maxAbsLat * math.Pi / 180)
	if cosLat < 1e-6 {
		return r.fallback.neighbors(i)
	}
	lonDelta := latDelta / cosLat
	if p.Longitude-lonDelta < -180 || p.Longitude+lonDelta > 180 {
		return r.fallback.neighbors(i)
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{p.Latitude - latDelta, p.Longitude - lonDelta},
		[]float64{2 * latDelta, 2 * lonDelta},
	)
	if err != nil {
		return r.fallback.neighbors(i)
	}

	result := make([]int, 0)
	for _, item := range r.tree.SearchIntersect(bounds) {
		ip, ok := item.(*indexedPoint)
		if !ok {
			continue
		}
		if helper.DistanceBetween(p, r.points[ip.idx]) <= r.eps {
			result = append(result, ip.idx)
		}
	}
	sort.Ints(result)
	return result
}
