package helper

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"Couple-App/internal/domain/model"
)

// ToOrbPoint Location を orb.Point ([lng, lat]) に変換
func ToOrbPoint(l model.Location) orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// ClustersToFeatureCollection クラスタの代表点を GeoJSON の Point Feature 群にする
func ClustersToFeatureCollection(clusters []model.Cluster) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, c := range clusters {
		f := geojson.NewFeature(ToOrbPoint(c.RepresentativePoint))
		f.Properties["cluster_index"] = i
		f.Properties["count"] = c.MemberCount
		fc.Append(f)
	}
	return fc
}

// TrailToFeatureCollection メンバーごとのサンプル列を LineString Feature にする
// サンプルが1件だけのメンバーは Point として出力する
func TrailToFeatureCollection(trail *model.CoupleTrail) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if trail == nil {
		return fc
	}
	userIDs := make([]string, 0, len(trail.Samples))
	for userID := range trail.Samples {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		samples := trail.Samples[userID]
		if len(samples) == 0 {
			continue
		}
		var f *geojson.Feature
		if len(samples) == 1 {
			f = geojson.NewFeature(ToOrbPoint(samples[0].Location()))
		} else {
			line := make(orb.LineString, 0, len(samples))
			for _, s := range samples {
				line = append(line, ToOrbPoint(s.Location()))
			}
			f = geojson.NewFeature(line)
		}
		f.Properties["user_id"] = userID
		f.Properties["samples"] = len(samples)
		f.Properties["start"] = samples[0].CapturedAt
		f.Properties["end"] = samples[len(samples)-1].CapturedAt
		fc.Append(f)
	}
	return fc
}
