package model

// RecordLocationRequest POST /gps のリクエスト
type RecordLocationRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// NearbyResult 近接判定の結果
type NearbyResult struct {
	IsNearby bool `json:"is_nearby"`
	// Distance メートル単位。DataAvailable が false の場合は nil
	Distance          *float64 `json:"distance"`
	DataAvailable     bool     `json:"data_available"`
	CheckpointWritten bool     `json:"checkpoint_written"`
}

// Cluster 一日のチェックポイントから導出される訪問場所（永続化しない）
type Cluster struct {
	RepresentativePoint Location `json:"representative_point"`
	MemberCount         int      `json:"count"`
	// Members クラスタに含まれる点（挿入順）。先頭が代表点
	Members []CoLocationCheckpoint `json:"-"`
}

// ClusteringResult DBSCAN の結果
type ClusteringResult struct {
	Clusters []Cluster
	Noise    []CoLocationCheckpoint
}

// ClusterDayResponse GET /gps/couples のレスポンス
type ClusterDayResponse struct {
	CoupleID string    `json:"couple_id"`
	Date     string    `json:"date"`
	Clusters []Cluster `json:"clusters"`
}

// CoupleTrail ある日のカップル両メンバーの移動軌跡
type CoupleTrail struct {
	CoupleID string                      `json:"couple_id"`
	Date     string                      `json:"date"`
	Samples  map[string][]LocationSample `json:"samples"`
}
