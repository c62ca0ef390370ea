package helper

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Couple-App/internal/domain/model"
)

func TestClustersToFeatureCollection(t *testing.T) {
	clusters := []model.Cluster{
		{RepresentativePoint: model.Location{Latitude: 37.5, Longitude: 127.0}, MemberCount: 12},
		{RepresentativePoint: model.Location{Latitude: 37.6, Longitude: 127.1}, MemberCount: 10},
	}

	fc := ClustersToFeatureCollection(clusters)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.Point{127.0, 37.5}, fc.Features[0].Geometry)
	assert.Equal(t, 12, fc.Features[0].Properties["count"])
	assert.Equal(t, 1, fc.Features[1].Properties["cluster_index"])
}

func TestTrailToFeatureCollection(t *testing.T) {
	base := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	trail := &model.CoupleTrail{
		CoupleID: "c1",
		Date:     "2024-05-01",
		Samples: map[string][]model.LocationSample{
			"u2": {
				{OwnerUserID: "u2", Latitude: 37.50, Longitude: 127.00, CapturedAt: base},
			},
			"u1": {
				{OwnerUserID: "u1", Latitude: 37.50, Longitude: 127.00, CapturedAt: base},
				{OwnerUserID: "u1", Latitude: 37.51, Longitude: 127.01, CapturedAt: base.Add(time.Minute)},
			},
			"u3": {},
		},
	}

	fc := TrailToFeatureCollection(trail)
	require.Len(t, fc.Features, 2)

	assert.Equal(t, "u1", fc.Features[0].Properties["user_id"])
	assert.Equal(t, orb.LineString{{127.00, 37.50}, {127.01, 37.51}}, fc.Features[0].Geometry)
	assert.Equal(t, 2, fc.Features[0].Properties["samples"])

	assert.Equal(t, "u2", fc.Features[1].Properties["user_id"])
	assert.Equal(t, orb.Point{127.00, 37.50}, fc.Features[1].Geometry)

	assert.Empty(t, TrailToFeatureCollection(nil).Features)
}
