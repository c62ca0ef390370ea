package model

import (
	"time"
)

// Location 緯度経度のペア
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate 緯度経度が有効範囲内かを確認する
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return &FieldError{Field: "latitude", Message: "緯度は-90から90の範囲で指定してください"}
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return &FieldError{Field: "longitude", Message: "経度は-180から180の範囲で指定してください"}
	}
	return nil
}

// LocationSample ユーザーから送られた生のGPSサンプル（追記専用）
type LocationSample struct {
	ID          string    `json:"id" db:"id"`
	OwnerUserID string    `json:"user_id" db:"owner_user_id"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	CapturedAt  time.Time `json:"timestamp" db:"captured_at"`
}

// Location サンプルの座標を返す
func (s LocationSample) Location() Location {
	return Location{Latitude: s.Latitude, Longitude: s.Longitude}
}

// CoLocationCheckpoint カップルが一緒にいたことが確認された地点
// 同一カップル内では CheckpointDedupWindow 未満の間隔で並ばない（書き込み時に保証）
type CoLocationCheckpoint struct {
	ID         string    `json:"id" db:"id" firestore:"id"`
	CoupleID   string    `json:"couple_id" db:"couple_id" firestore:"couple_id"`
	Latitude   float64   `json:"latitude" db:"latitude" firestore:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude" firestore:"longitude"`
	CapturedAt time.Time `json:"timestamp" db:"captured_at" firestore:"captured_at"`
}

// Location チェックポイントの座標を返す
func (c CoLocationCheckpoint) Location() Location {
	return Location{Latitude: c.Latitude, Longitude: c.Longitude}
}

// Couple カップル情報（ペアリング処理は外部サービスが担当）
type Couple struct {
	CoupleID string `json:"couple_id" db:"couple_id"`
	User1ID  string `json:"user1_id" db:"user1_id"`
	User2ID  string `json:"user2_id" db:"user2_id"`
}
