// Package geo computes great-circle distances on a spherical Earth.
package geo

import "math"

// Mean Earth radius in meters.
const earthRadiusM = 6371e3

// DistanceM returns the haversine distance in meters between two
// (latitude, longitude) pairs given in degrees. The result is symmetric in
// its arguments.
func DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
