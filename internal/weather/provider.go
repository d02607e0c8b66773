package weather

import (
	"context"
	"errors"
)

// Provider abstracts a current-conditions source (e.g. WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, city string) (WeatherSnapshot, error)
}

// ErrNotFound is returned by a Preferences store when a key has no value.
var ErrNotFound = errors.New("preference not found")

// Preferences is the durable key-value storage the search session persists
// the selected city into.
type Preferences interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
