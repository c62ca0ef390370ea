package repository

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"Couple-App/internal/domain/model"
)

// LocationToWKT model.Location を PostGIS に渡す WKT (POINT(lng lat)) に変換
func LocationToWKT(location model.Location) string {
	point := orb.Point{location.Longitude, location.Latitude}
	return wkt.MarshalString(point)
}

// storageError ドライバのエラーを ErrStorageUnavailable としても判定できる形で包む
func storageError(message string, err error) error {
	return fmt.Errorf("%s: %w: %w", message, model.ErrStorageUnavailable, err)
}
