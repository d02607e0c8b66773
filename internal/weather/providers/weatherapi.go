package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultWeatherAPIURL is the current-conditions endpoint of WeatherAPI.com.
const DefaultWeatherAPIURL = "http://api.weatherapi.com/v1/current.json"

var validate = validator.New()

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name      string
	apiKey    string
	baseURL   string
	transport *Transport
	tracer    trace.Tracer
	now       func() time.Time
}

// NewWeatherAPIProvider creates a provider. An empty apiKey is sent as is;
// the remote service decides what to do with it.
func NewWeatherAPIProvider(transport *Transport, apiKey, baseURL string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:      "weatherapi",
		apiKey:    apiKey,
		baseURL:   baseURL,
		transport: transport,
		tracer:    otel.Tracer("github.com/i474232898/weather-lookup/providers"),
		now:       time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Current fetches current conditions for city.
func (p *WeatherAPIProvider) Current(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "weatherapi.current",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("city", city)),
	)
	defer span.End()

	snapshot, err := p.current(ctx, city)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, weather.ErrorKind(err))
		return weather.WeatherSnapshot{}, err
	}
	return snapshot, nil
}

func (p *WeatherAPIProvider) current(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	body, err := p.transport.Do(ctx, Request{
		Method: http.MethodGet,
		URL:    p.baseURL,
		Query: map[string]string{
			"key": p.apiKey,
			"q":   city,
		},
	})
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	snapshot, err := decodeCurrent(body)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}
	snapshot.FetchedAt = p.now().UTC()
	return snapshot, nil
}

type currentPayload struct {
	Location *struct {
		Name    string  `json:"name" validate:"required"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	} `json:"location" validate:"required"`
	Current *struct {
		TempC      *float64 `json:"temp_c" validate:"required"`
		Humidity   float64  `json:"humidity"`
		FeelslikeC float64  `json:"feelslike_c"`
		UV         float64  `json:"uv"`
		Condition  *struct {
			Icon string `json:"icon"`
			Text string `json:"text"`
		} `json:"condition" validate:"required"`
	} `json:"current" validate:"required"`
}

// decodeCurrent maps a current.json payload onto a WeatherSnapshot.
func decodeCurrent(body []byte) (weather.WeatherSnapshot, error) {
	var payload currentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: %v", weather.ErrDecode, err)
	}
	if err := validate.Struct(payload); err != nil {
		return weather.WeatherSnapshot{}, fmt.Errorf("%w: %v", weather.ErrDecode, err)
	}

	loc := payload.Location
	cur := payload.Current

	return weather.WeatherSnapshot{
		Location: weather.Location{
			City:    loc.Name,
			Region:  loc.Region,
			Country: loc.Country,
			Lat:     loc.Lat,
			Lon:     loc.Lon,
		},
		Temperature:   *cur.TempC,
		Humidity:      cur.Humidity,
		FeelsLike:     cur.FeelslikeC,
		UV:            cur.UV,
		IconPath:      cur.Condition.Icon,
		ConditionText: cur.Condition.Text,
		Condition:     weather.ParseCondition(cur.Condition.Text),
	}, nil
}
