package geo

import "math"

// Round rounds a coordinate to the given number of decimal places, half away
// from zero. At 4 decimals this is roughly 11 m of resolution, enough to
// strip GPS sensor noise while keeping points distinct on a city map.
func Round(value float64, precision int) float64 {
	factor := math.Pow(10, float64(precision))
	return math.Round(value*factor) / factor
}

// Normalize rounds a latitude/longitude pair to the given precision. Inputs
// are expected to be finite; callers validate before normalizing.
func Normalize(lat, lng float64, precision int) (float64, float64) {
	return Round(lat, precision), Round(lng, precision)
}
