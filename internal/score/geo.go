// SPDX-License-Identifier: Apache-2.0

package score

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// BoundingBox is the smallest lat/lon rectangle around a point set.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// Geometry summarises a set of coordinate candidates.
type Geometry struct {
	Count    int         `json:"count" yaml:"count"`
	Centroid Point       `json:"centroid" yaml:"centroid"`
	Box      BoundingBox `json:"box" yaml:"box"`
	// MaxDistanceKm is the largest pairwise great-circle distance, between
	// candidates From and To (indexes into the input).
	MaxDistanceKm float64 `json:"max_distance_km" yaml:"max_distance_km"`
	From          int     `json:"from" yaml:"from"`
	To            int     `json:"to" yaml:"to"`
	// BearingDeg is the initial bearing from From to To, 0-360.
	BearingDeg float64 `json:"bearing_deg" yaml:"bearing_deg"`
}

// Haversine returns the great-circle distance between a and b in km.
func Haversine(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial compass bearing from a to b in degrees.
func Bearing(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

// Measure computes the Geometry of cs. It returns false for an empty set.
func Measure(cs []CoordinateCandidate) (Geometry, bool) {
	if len(cs) == 0 {
		return Geometry{}, false
	}
	g := Geometry{
		Count: len(cs),
		Box:   BoundingBox{MinLat: cs[0].Lat, MaxLat: cs[0].Lat, MinLon: cs[0].Lon, MaxLon: cs[0].Lon},
	}
	for _, c := range cs {
		g.Centroid.Lat += c.Lat
		g.Centroid.Lon += c.Lon
		g.Box.MinLat = math.Min(g.Box.MinLat, c.Lat)
		g.Box.MaxLat = math.Max(g.Box.MaxLat, c.Lat)
		g.Box.MinLon = math.Min(g.Box.MinLon, c.Lon)
		g.Box.MaxLon = math.Max(g.Box.MaxLon, c.Lon)
	}
	g.Centroid.Lat /= float64(len(cs))
	g.Centroid.Lon /= float64(len(cs))

	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			d := Haversine(cs[i].Point(), cs[j].Point())
			if d > g.MaxDistanceKm {
				g.MaxDistanceKm, g.From, g.To = d, i, j
			}
		}
	}
	if g.From != g.To {
		g.BearingDeg = Bearing(cs[g.From].Point(), cs[g.To].Point())
	}
	return g, true
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
