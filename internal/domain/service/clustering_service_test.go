package service

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Couple-App/internal/domain/helper"
	"Couple-App/internal/domain/model"
)

var clusterBase = time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

// checkpointAt 基準点から北に northMeters, 東に eastMeters ずらした点を作る
func checkpointAt(seq int, lat, lon, northMeters, eastMeters float64) model.CoLocationCheckpoint {
	dLat := helper.MetersToLatDegrees(northMeters)
	dLon := helper.MetersToLatDegrees(eastMeters) / cosDeg(lat)
	return model.CoLocationCheckpoint{
		ID:         fmt.Sprintf("cp-%03d", seq),
		CoupleID:   "couple-1",
		Latitude:   lat + dLat,
		Longitude:  lon + dLon,
		CapturedAt: clusterBase.Add(time.Duration(seq) * time.Minute),
	}
}

// tightGroup 半径数メートル以内に n 点を並べる
func tightGroup(startSeq, n int, lat, lon float64) []model.CoLocationCheckpoint {
	points := make([]model.CoLocationCheckpoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, checkpointAt(startSeq+i, lat, lon, float64(i%4)*1.0, float64(i/4)*1.0))
	}
	return points
}

func memberIDs(c model.Cluster) []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestClusteringService_Cluster(t *testing.T) {
	svc := NewClusteringService()

	t.Run("近接した12点は1クラスタ", func(t *testing.T) {
		points := tightGroup(0, 12, 37.5665, 126.9780)

		result := svc.Cluster(points)
		require.Len(t, result.Clusters, 1)
		assert.Equal(t, 12, result.Clusters[0].MemberCount)
		assert.Empty(t, result.Noise)
		assert.Equal(t, points[0].Location(), result.Clusters[0].RepresentativePoint)
	})

	t.Run("離れた5点はすべてノイズ", func(t *testing.T) {
		var points []model.CoLocationCheckpoint
		for i := 0; i < 5; i++ {
			points = append(points, checkpointAt(i, 37.5665, 126.9780, float64(i)*100, 0))
		}

		result := svc.Cluster(points)
		assert.Empty(t, result.Clusters)
		assert.Len(t, result.Noise, 5)
	})

	t.Run("minPointsちょうどでクラスタになる", func(t *testing.T) {
		result := svc.Cluster(tightGroup(0, model.ClusterMinPoints, 37.5665, 126.9780))
		require.Len(t, result.Clusters, 1)
		assert.Equal(t, model.ClusterMinPoints, result.Clusters[0].MemberCount)

		result = svc.Cluster(tightGroup(0, model.ClusterMinPoints-1, 37.5665, 126.9780))
		assert.Empty(t, result.Clusters)
		assert.Len(t, result.Noise, model.ClusterMinPoints-1)
	})

	t.Run("空入力", func(t *testing.T) {
		result := svc.Cluster(nil)
		assert.Empty(t, result.Clusters)
		assert.NotNil(t, result.Noise)
		assert.Empty(t, result.Noise)
	})

	t.Run("先にノイズと判定された境界点も後からクラスタに入る", func(t *testing.T) {
		// 境界点は最も早い時刻。近傍は自身を含めて7点なのでコア点ではない
		border := checkpointAt(0, 37.5665, 126.9780, -12.2, 0)
		points := []model.CoLocationCheckpoint{border}
		for i := 0; i < 10; i++ {
			points = append(points, checkpointAt(i+1, 37.5665, 126.9780, float64(i)*0.5, 0))
		}

		result := svc.Cluster(points)
		require.Len(t, result.Clusters, 1)
		assert.Equal(t, 11, result.Clusters[0].MemberCount)
		assert.Contains(t, memberIDs(result.Clusters[0]), border.ID)
		assert.Empty(t, result.Noise)
	})

	t.Run("2つの離れたグループは作成順に並ぶ", func(t *testing.T) {
		first := tightGroup(0, 10, 37.5665, 126.9780)
		second := tightGroup(100, 11, 37.5700, 126.9900)
		points := append(append([]model.CoLocationCheckpoint{}, second...), first...)

		result := svc.Cluster(points)
		require.Len(t, result.Clusters, 2)
		assert.Equal(t, 10, result.Clusters[0].MemberCount)
		assert.Equal(t, 11, result.Clusters[1].MemberCount)
		assert.Equal(t, first[0].Location(), result.Clusters[0].RepresentativePoint)
	})

	t.Run("R-treeを使う点数でも同じ結果", func(t *testing.T) {
		points := tightGroup(0, 70, 37.5665, 126.9780)
		require.GreaterOrEqual(t, len(points), rtreeThreshold)

		result := svc.Cluster(points)
		require.Len(t, result.Clusters, 1)
		assert.Equal(t, 70, result.Clusters[0].MemberCount)
	})
}

func TestClusteringService_PermutationInvariance(t *testing.T) {
	svc := NewClusteringService()

	var points []model.CoLocationCheckpoint
	points = append(points, tightGroup(0, 12, 37.5665, 126.9780)...)
	points = append(points, tightGroup(20, 10, 37.5700, 126.9900)...)
	for i := 0; i < 3; i++ {
		points = append(points, checkpointAt(40+i, 37.5800, 127.0000, float64(i)*200, 0))
	}

	expected := svc.Cluster(points)
	require.Len(t, expected.Clusters, 2)
	require.Len(t, expected.Noise, 3)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]model.CoLocationCheckpoint{}, points...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := svc.Cluster(shuffled)
		require.Len(t, got.Clusters, len(expected.Clusters))
		for i := range expected.Clusters {
			assert.Equal(t, memberIDs(expected.Clusters[i]), memberIDs(got.Clusters[i]))
			assert.Equal(t, expected.Clusters[i].RepresentativePoint, got.Clusters[i].RepresentativePoint)
		}
		assert.Equal(t, expected.Noise, got.Noise)
	}
}

func TestSortByCapturedAt(t *testing.T) {
	same := clusterBase
	points := []model.CoLocationCheckpoint{
		{ID: "b", CapturedAt: same},
		{ID: "c", CapturedAt: same.Add(-time.Second)},
		{ID: "a", CapturedAt: same},
	}

	ordered := sortByCapturedAt(points)
	assert.Equal(t, "c", ordered[0].ID)
	assert.Equal(t, "a", ordered[1].ID)
	assert.Equal(t, "b", ordered[2].ID)
	assert.Equal(t, "b", points[0].ID, "入力は変更しない")
}
