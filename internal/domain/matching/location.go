package matching

import "math"

// NeutralLocationScore applies when either side lacks coordinates.
const NeutralLocationScore = 50.0

const earthRadiusKm = 6371.0

// LocationScore maps geodesic distance onto fixed bands. Beyond 100 km the
// candidate's relocation flag decides between 20 and 10.
func LocationScore(candLat, candLon, jobLat, jobLon *float64, acceptsRelocation bool) float64 {
	if candLat == nil || candLon == nil || jobLat == nil || jobLon == nil {
		return NeutralLocationScore
	}

	d := Haversine(*candLat, *candLon, *jobLat, *jobLon)
	switch {
	case d <= 5:
		return 100
	case d <= 15:
		return 90
	case d <= 30:
		return 75
	case d <= 50:
		return 60
	case d <= 100:
		return 40
	case acceptsRelocation:
		return 20
	default:
		return 10
	}
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
