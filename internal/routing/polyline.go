package routing

// decodePolyline converts a string in Google's encoded polyline format into
// coordinates. Each value is a 5-bit chunked, zigzag-signed delta from the
// previous point, scaled by 1e-5.
func decodePolyline(encoded string) []Coordinate {
	var points []Coordinate
	index, lat, lng := 0, 0, 0

	readValue := func() (int, bool) {
		shift, result := 0, 0
		for {
			if index >= len(encoded) {
				return 0, false
			}
			b := int(encoded[index]) - 63
			index++
			result |= (b & 0x1f) << shift
			shift += 5
			if b < 0x20 {
				break
			}
		}
		if result&1 != 0 {
			return ^(result >> 1), true
		}
		return result >> 1, true
	}

	for index < len(encoded) {
		dLat, ok := readValue()
		if !ok {
			return points
		}
		lat += dLat

		dLng, ok := readValue()
		if !ok {
			return points
		}
		lng += dLng

		points = append(points, Coordinate{
			Latitude:  float64(lat) * 1e-5,
			Longitude: float64(lng) * 1e-5,
		})
	}

	return points
}
