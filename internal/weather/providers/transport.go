package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Request describes a single outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	// Body is JSON-encoded when non-nil.
	Body map[string]string
}

// Transport performs exactly one HTTP call per Do and never retries. An
// optional circuit breaker can stop calls to a provider whose network path is
// down; it is off unless WithBreakerThreshold enables it.
type Transport struct {
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// TransportOption configures a Transport.
type TransportOption func(*gobreaker.Settings)

// WithBreakerThreshold opens the circuit after n consecutive network failures.
// Zero keeps the breaker closed forever, so every Do reaches the network.
func WithBreakerThreshold(n uint32) TransportOption {
	return func(st *gobreaker.Settings) {
		st.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return n > 0 && counts.ConsecutiveFailures >= n
		}
	}
}

// NewTransport creates a Transport. A nil client means http.DefaultClient.
func NewTransport(client *http.Client, opts ...TransportOption) *Transport {
	if client == nil {
		client = http.DefaultClient
	}

	settings := gobreaker.Settings{
		Name:        "weather-transport",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	}
	WithBreakerThreshold(0)(&settings)
	for _, opt := range opts {
		opt(&settings)
	}

	return &Transport{
		client:  client,
		circuit: gobreaker.NewCircuitBreaker(settings),
	}
}

// cancelled carries a caller-side context error through the breaker without
// counting it as a provider failure.
type cancelled struct {
	err error
}

// Do sends req and returns the raw response body.
func (t *Transport) Do(ctx context.Context, req Request) ([]byte, error) {
	httpReq, err := req.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrBadRequest, err)
	}

	// Only network failures count against the breaker; HTTP statuses are
	// evaluated after Execute returns.
	result, err := t.circuit.Execute(func() (interface{}, error) {
		resp, execErr := t.client.Do(httpReq)
		if execErr != nil {
			if ctx.Err() != nil {
				return cancelled{err: execErr}, nil
			}
			return nil, execErr
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrTransport, err)
	}
	if c, ok := result.(cancelled); ok {
		return nil, fmt.Errorf("%w: %v", weather.ErrTransport, c.err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrGeneric)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", weather.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if msg := providerMessage(body); msg != "" {
			return nil, fmt.Errorf("%w: status %d: %s", weather.ErrTransport, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: status %d", weather.ErrTransport, resp.StatusCode)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", weather.ErrGeneric)
	}

	return body, nil
}

func (r Request) build(ctx context.Context) (*http.Request, error) {
	if r.URL == "" {
		return nil, errors.New("missing url")
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q is not absolute", r.URL)
	}

	if len(r.Query) > 0 {
		values := u.Query()
		for k, v := range r.Query {
			values.Set(k, v)
		}
		u.RawQuery = values.Encode()
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// providerMessage extracts WeatherAPI's {"error":{"message":...}} envelope.
func providerMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Message
}
