package types

import "strconv"

// trimFloat renders a float64 the way a JS numeric literal stringifies:
// integral values with no trailing ".0", everything else via the shortest
// round-tripping decimal representation.
func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
