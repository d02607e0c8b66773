// Package presenter turns the search session's published view into the
// strings a screen shows. It never mutates the session.
package presenter

import (
	"strconv"
	"strings"

	"github.com/i474232898/weather-lookup/internal/search"
)

const (
	noCityText    = "No City Selected"
	noCitySubText = "Please search for a city"
	noDataText    = "No weather data found"
)

// Viewer is the read side of a search session.
type Viewer interface {
	View() search.View
}

// Adapter exposes formatted getters over a Viewer. Each getter reads the view
// afresh; use Card for a set of values taken from one consistent view.
type Adapter struct {
	viewer Viewer
}

// New creates an Adapter.
func New(viewer Viewer) *Adapter {
	return &Adapter{viewer: viewer}
}

// Card is everything a screen needs to render one frame.
type Card struct {
	State         search.State `json:"state"`
	Query         string       `json:"query"`
	CityName      string       `json:"cityName"`
	Region        string       `json:"region"`
	Country       string       `json:"country"`
	Temperature   string       `json:"temperature"`
	Humidity      string       `json:"humidity"`
	UV            string       `json:"uv"`
	FeelsLike     string       `json:"feelsLike"`
	IconURL       string       `json:"iconUrl"`
	ConditionText string       `json:"conditionText"`
	Message       string       `json:"message,omitempty"`
	SubMessage    string       `json:"subMessage,omitempty"`
}

// Card renders the current view.
func (a *Adapter) Card() Card {
	return Render(a.viewer.View())
}

// Render formats v. It is a pure function of its input.
func Render(v search.View) Card {
	c := Card{
		State:       v.State,
		Query:       v.Query,
		Temperature: formatDecimal(0),
		Humidity:    formatDecimal(0),
		UV:          formatDecimal(0),
		FeelsLike:   formatDecimal(0),
	}

	if s := v.Snapshot; s != nil {
		c.CityName = s.Location.City
		c.Region = s.Location.Region
		c.Country = s.Location.Country
		c.Temperature = formatDecimal(s.Temperature)
		c.Humidity = formatDecimal(s.Humidity)
		c.UV = formatDecimal(s.UV)
		c.FeelsLike = formatDecimal(s.FeelsLike)
		c.IconURL = s.IconURL()
		c.ConditionText = s.ConditionText
	}

	switch v.State {
	case search.StateNoCity:
		c.Message = noCityText
		c.SubMessage = noCitySubText
	case search.StateNoData:
		c.Message = noDataText
	}

	return c
}

// State is the current view state.
func (a *Adapter) State() search.State { return a.viewer.View().State }

// CityName is the resolved city, or "" when there is no result.
func (a *Adapter) CityName() string { return a.Card().CityName }

// Temperature is the reading in °C as a decimal string ("21.5"), "0.0" without a result.
func (a *Adapter) Temperature() string { return a.Card().Temperature }

// Humidity is the relative humidity in percent ("60.0").
func (a *Adapter) Humidity() string { return a.Card().Humidity }

// UV is the UV index ("3.0").
func (a *Adapter) UV() string { return a.Card().UV }

// FeelsLike is the apparent temperature in °C ("20.0").
func (a *Adapter) FeelsLike() string { return a.Card().FeelsLike }

// IconURL is the absolute icon URL, or "" when there is no result.
func (a *Adapter) IconURL() string { return a.Card().IconURL }

// ConditionText is the provider's description, e.g. "Partly cloudy".
func (a *Adapter) ConditionText() string { return a.Card().ConditionText }

// NoCityText is the headline of the empty state.
func (a *Adapter) NoCityText() string { return noCityText }

// NoCitySubText is the hint under the empty-state headline.
func (a *Adapter) NoCitySubText() string { return noCitySubText }

// NoDataText is shown when a lookup failed.
func (a *Adapter) NoDataText() string { return noDataText }

// formatDecimal renders v in the shortest form that round-trips, keeping one
// decimal place for whole numbers (60 -> "60.0").
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if strings.ContainsAny(s, ".NI") {
		return s
	}
	return s + ".0"
}
