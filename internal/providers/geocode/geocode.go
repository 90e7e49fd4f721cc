package geocode

import "context"

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves a postal code to coordinates. Lookup fails with a
// NOT_FOUND AppError when the code has no match and an UPSTREAM AppError on
// transport or decoding failures.
type Geocoder interface {
	Lookup(ctx context.Context, postalCode string) (Coordinates, error)
}
