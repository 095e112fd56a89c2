// Package exchangerate talks to a JSON exchange-rate API and caches its
// answers.
package exchangerate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://api.exchangerate-api.com/v4"
	DefaultTimeout = 30 * time.Second
)

var tracer = otel.Tracer("finframe/exchangerate")

// Kind classifies a failed API call.
type Kind string

const (
	KindConnection Kind = "connection"
	KindTimeout    Kind = "timeout"
	KindStatus     Kind = "status"
	KindDecode     Kind = "decode"
	KindUnknown    Kind = "unknown"
)

// APIError is returned by every Client call that fails.
type APIError struct {
	Kind       Kind
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("exchange rate API %s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("exchange rate API %s %s timed out", e.Method, e.Endpoint)
	case KindConnection:
		return fmt.Sprintf("cannot reach exchange rate API: %v", e.Err)
	case KindDecode:
		return fmt.Sprintf("exchange rate API returned invalid JSON: %v", e.Err)
	default:
		return fmt.Sprintf("exchange rate API error: %v", e.Err)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client is a small JSON REST client with an optional bearer API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client. Empty baseURL and non-positive timeout fall
// back to the defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// BuildURL joins endpoint to the base URL and appends params.
func (c *Client) BuildURL(endpoint string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, c.BuildURL(endpoint, params), endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, c.BuildURL(endpoint, nil), endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, c.BuildURL(endpoint, nil), endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, c.BuildURL(endpoint, nil), endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, target, endpoint string, body, out any) error {
	ctx, span := tracer.Start(ctx, "exchangerate "+method+" "+endpoint)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("exchangerate.endpoint", endpoint),
	)

	fail := func(e *APIError) error {
		e.Method, e.Endpoint = method, endpoint
		span.RecordError(e)
		span.SetStatus(codes.Error, string(e.Kind))
		log.Error().Err(e).Str("kind", string(e.Kind)).Str("endpoint", endpoint).Msg("exchange rate API call failed")
		return e
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fail(&APIError{Kind: KindUnknown, Err: fmt.Errorf("failed to encode request: %w", err)})
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(&APIError{Kind: KindUnknown, Err: err})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(&APIError{Kind: classify(err), Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fail(&APIError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(snippet))),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if kind := classify(err); kind == KindTimeout {
			return fail(&APIError{Kind: kind, Err: err})
		}
		return fail(&APIError{Kind: KindDecode, StatusCode: resp.StatusCode, Err: err})
	}
	return nil
}

func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindConnection
	}
	return KindUnknown
}
