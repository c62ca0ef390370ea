package helper

import (
	"math"

	"Couple-App/internal/domain/model"
)

// EarthRadiusMeters 距離計算に使う地球半径
const EarthRadiusMeters = 6371e3

// HaversineDistance は2地点間の大円距離を計算する (m)
// 入力の検証は呼び出し側の責務。NaN を渡すと NaN が返る
func HaversineDistance(latA, lonA, latB, lonB float64) float64 {
	phi1 := latA * math.Pi / 180
	phi2 := latB * math.Pi / 180
	dPhi := (latB - latA) * math.Pi / 180
	dLambda := (lonB - lonA) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// DistanceBetween は2つの Location 間の距離を計算する (m)
func DistanceBetween(a, b model.Location) float64 {
	return HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// MetersToLatDegrees は南北方向の距離を緯度差に換算する
func MetersToLatDegrees(meters float64) float64 {
	return meters / EarthRadiusMeters * 180 / math.Pi
}
