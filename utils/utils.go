package utils

import "math"

func RoundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}

// FloorInt floors n, tolerating binary float noise such as 28.999999999999996.
func FloorInt(n float64) int64 {
	return int64(math.Floor(n + 1e-9))
}
