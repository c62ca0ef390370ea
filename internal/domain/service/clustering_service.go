package service

import (
	"runtime"
	"sort"

	"Couple-App/internal/domain/model"
)

// rtreeThreshold この点数以上なら R-tree で近傍検索する
const rtreeThreshold = 64

// ClusteringService は一日分のチェックポイントを訪問場所にまとめるドメインサービス
type ClusteringService interface {
	// Cluster は DBSCAN (eps=15m, minPoints=10) を実行する。入力は captured_at 昇順に並べ替えてから処理する
	Cluster(points []model.CoLocationCheckpoint) *model.ClusteringResult
}

type clusteringService struct {
	eps            float64
	minPoints      int
	indexThreshold int
	finder         *ParallelNeighborFinder
}

// NewClusteringService は新しいClusteringServiceインスタンスを作成
func NewClusteringService() ClusteringService {
	return &clusteringService{
		eps:            model.ClusterEpsMeters,
		minPoints:      model.ClusterMinPoints,
		indexThreshold: rtreeThreshold,
		finder:         NewParallelNeighborFinder(runtime.NumCPU()),
	}
}

// pointState 各点の状態。visited は近傍計算済みで所属未確定の一時状態
type pointState int

const (
	stateUnvisited pointState = iota
	stateVisited
	stateNoise
	stateMember
)

type pointStatus struct {
	state   pointState
	cluster int
}

// Cluster DBSCAN の本体
func (s *clusteringService) Cluster(points []model.CoLocationCheckpoint) *model.ClusteringResult {
	ordered := sortByCapturedAt(points)
	n := len(ordered)

	locations := make([]model.Location, n)
	for i, p := range ordered {
		locations[i] = p.Location()
	}
	neighbors := s.finder.FindAll(s.newIndex(locations), n)

	status := make([]pointStatus, n)
	var clusters [][]int

	for i := 0; i < n; i++ {
		if status[i].state != stateUnvisited {
			continue
		}
		status[i].state = stateVisited

		if len(neighbors[i]) < s.minPoints {
			// 暫定ノイズ。後で他のクラスタの展開で到達すればそのクラスタに入る
			status[i].state = stateNoise
			continue
		}

		clusterID := len(clusters)
		clusters = append(clusters, nil)

		frontier := append([]int(nil), neighbors[i]...)
		for k := 0; k < len(frontier); k++ {
			q := frontier[k]
			if status[q].state == stateUnvisited {
				status[q].state = stateVisited
				if len(neighbors[q]) >= s.minPoints {
					for _, r := range neighbors[q] {
						if status[r].state == stateUnvisited {
							frontier = append(frontier, r)
						}
					}
				}
			}
			if status[q].state != stateMember {
				status[q] = pointStatus{state: stateMember, cluster: clusterID}
				clusters[clusterID] = append(clusters[clusterID], q)
			}
		}
	}

	result := &model.ClusteringResult{
		Clusters: make([]model.Cluster, 0, len(clusters)),
		Noise:    make([]model.CoLocationCheckpoint, 0),
	}
	for _, members := range clusters {
		c := model.Cluster{
			RepresentativePoint: ordered[members[0]].Location(),
			MemberCount:         len(members),
			Members:             make([]model.CoLocationCheckpoint, 0, len(members)),
		}
		for _, idx := range members {
			c.Members = append(c.Members, ordered[idx])
		}
		result.Clusters = append(result.Clusters, c)
	}
	for i, st := range status {
		if st.state == stateNoise {
			result.Noise = append(result.Noise, ordered[i])
		}
	}
	return result
}

func (s *clusteringService) newIndex(locations []model.Location) neighborIndex {
	if len(locations) >= s.indexThreshold {
		return newRtreeIndex(locations, s.eps)
	}
	return newBruteForceIndex(locations, s.eps)
}

// sortByCapturedAt 入力順に依存しないよう captured_at, id の順で安定ソートしたコピーを返す
func sortByCapturedAt(points []model.CoLocationCheckpoint) []model.CoLocationCheckpoint {
	ordered := make([]model.CoLocationCheckpoint, len(points))
	copy(ordered, points)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CapturedAt.Equal(ordered[j].CapturedAt) {
			return ordered[i].CapturedAt.Before(ordered[j].CapturedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
