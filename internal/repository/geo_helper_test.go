package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"Couple-App/internal/domain/model"
)

func TestLocationToWKT(t *testing.T) {
	wkt := LocationToWKT(model.Location{Latitude: 37.5665, Longitude: 126.978})
	assert.Equal(t, "POINT(126.978 37.5665)", wkt)
}

func TestStorageError(t *testing.T) {
	driverErr := errors.New("pq: connection refused")
	err := storageError("GPSサンプルの保存失敗", driverErr)

	assert.ErrorIs(t, err, model.ErrStorageUnavailable)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "GPSサンプルの保存失敗")
}
