package routing

// Simplify reduces a dense coordinate sequence to a bounded point count
// while keeping the first and last points exactly. Thinning is tiered by
// input size: above 200 points every 4th point survives, between 51 and 200
// every 2nd, and 50 or fewer pass through untouched.
//
// If the input has fewer than 2 points, a straight two-point line between
// origin and destination is returned as a last resort.
func Simplify(coords []Coordinate, origin, destination Coordinate) []Coordinate {
	if len(coords) < 2 {
		return []Coordinate{origin, destination}
	}

	var step int
	switch {
	case len(coords) > 200:
		step = 4
	case len(coords) > 50:
		step = 2
	default:
		return coords
	}

	out := make([]Coordinate, 0, len(coords)/step+2)
	out = append(out, coords[0])
	for i := step; i < len(coords)-1; i += step {
		out = append(out, coords[i])
	}
	out = append(out, coords[len(coords)-1])
	return out
}
