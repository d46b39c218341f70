package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeyPrecision is the number of decimal places coordinates are rounded to
// before forming a cache key. Four decimals is roughly an 11m grid, coarse
// enough to absorb floating-point noise without merging distinct places.
const KeyPrecision = 4

// Round truncates floating-point noise from a coordinate component.
func Round(v float64) float64 {
	scale := math.Pow10(KeyPrecision)
	return math.Round(v*scale) / scale
}

// Key forms the composite cache key for a coordinate pair.
// The layout ("location_{lat}_{lon}") is shared with the durable store.
func Key(lat, lon float64) string {
	return fmt.Sprintf("location_%s_%s", formatCoord(Round(lat)), formatCoord(Round(lon)))
}

// ParseKey recovers the rounded coordinate pair from a composite key.
func ParseKey(key string) (lat, lon float64, err error) {
	rest, ok := strings.CutPrefix(key, "location_")
	if !ok {
		return 0, 0, fmt.Errorf("not a location key: %q", key)
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed location key: %q", key)
	}
	lat, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude in key %q: %w", key, err)
	}
	lon, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude in key %q: %w", key, err)
	}
	return lat, lon, nil
}

func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', KeyPrecision, 64)
	// Trim trailing zeros but keep at least one decimal so keys stay stable
	// regardless of how the coordinate was originally printed.
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
