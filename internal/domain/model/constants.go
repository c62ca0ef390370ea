package model

import "time"

const (
	// ProximityThresholdMeters この距離以内（境界含む）を「近くにいる」と判定する
	ProximityThresholdMeters = 100.0

	// CheckpointDedupWindow 同一カップルのチェックポイント間の最小間隔
	CheckpointDedupWindow = 60 * time.Second

	// ClusterEpsMeters DBSCAN の近傍半径
	ClusterEpsMeters = 15.0

	// ClusterMinPoints DBSCAN のクラスタ最小点数（自身を含む）
	ClusterMinPoints = 10

	// RecentLocationsLimit ユーザーの直近サンプル取得のデフォルト件数
	RecentLocationsLimit = 100

	// DefaultServiceUTCOffsetHours 日付境界の基準タイムゾーン（KST）
	DefaultServiceUTCOffsetHours = 9
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
