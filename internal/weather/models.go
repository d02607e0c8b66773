package weather

import (
	"strings"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is the place a snapshot was resolved to by the provider.
type Location struct {
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// WeatherSnapshot is the current conditions for one city at the time it was fetched.
// Values are never mutated after decoding; a newer fetch replaces the whole snapshot.
type WeatherSnapshot struct {
	Location      Location  `json:"location"`
	FetchedAt     time.Time `json:"fetchedAt"` // always UTC
	Temperature   float64   `json:"temperatureC"`
	Humidity      float64   `json:"humidityPercent"`
	FeelsLike     float64   `json:"feelsLikeC"`
	UV            float64   `json:"uv"`
	IconPath      string    `json:"iconPath"`
	ConditionText string    `json:"conditionText"`
	Condition     Condition `json:"condition"`
}

// IconURL returns an absolute icon URL. WeatherAPI sends protocol-relative
// paths ("//cdn.weatherapi.com/..."), which need a scheme before use.
func (s WeatherSnapshot) IconURL() string {
	switch {
	case s.IconPath == "":
		return ""
	case strings.HasPrefix(s.IconPath, "//"):
		return "http:" + s.IconPath
	default:
		return s.IconPath
	}
}
