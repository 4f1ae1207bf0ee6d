package utils

import "math"

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// ParseBool interprets the boolean encodings seen in the raw exports.
func ParseBool(value string) bool {
	switch value {
	case "1", "true", "True", "TRUE", "t", "T":
		return true
	}
	return false
}
