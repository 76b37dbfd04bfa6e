package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair persisted as "lat,lng" text, the
// same wire format the frontend map picker produces.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Parse converts "lat,lng" input into Coordinates. Both components must be
// finite numbers inside the WGS84 bounds.
func Parse(value string) (Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates %q must be a lat,lng pair", value)
	}

	lat, err := parseComponent(parts[0])
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := parseComponent(parts[1])
	if err != nil {
		return Coordinates{}, fmt.Errorf("invalid longitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return Coordinates{}, fmt.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return Coordinates{}, fmt.Errorf("longitude %v out of range", lng)
	}

	return Coordinates{Latitude: lat, Longitude: lng}, nil
}

// IsValid reports whether the raw value parses as coordinates.
func IsValid(value string) bool {
	_, err := Parse(value)
	return err == nil
}

// String renders the canonical "lat,lng" form.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

func parseComponent(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", raw)
	}
	return v, nil
}
