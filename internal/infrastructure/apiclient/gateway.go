// Package apiclient is the typed client of the remote scheduling API. Every
// call flows through one Gateway, which attaches the bearer token, applies the
// timeout and rate limit, and normalizes error bodies into *domain.APIError.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/clinica-nutricion/turnos-client/internal/api/metrics"
	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api"
	DefaultTimeout = 15 * time.Second

	// HeaderRequestID correlates a call with the server logs.
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes = 4 << 20
)

// Options configures a Gateway. Zero values select the defaults; a zero
// RateLimit disables limiting.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
	HTTPClient *http.Client
}

// Gateway is the single configured HTTP client all modules share.
type Gateway struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewGateway(opts Options, log zerolog.Logger) *Gateway {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Gateway{
		baseURL: base,
		client:  client,
		limiter: limiter,
		log:     log.With().Str("component", "apiclient").Logger(),
	}
}

// BaseURL returns the normalized API root.
func (g *Gateway) BaseURL() string { return g.baseURL }

// Ping reports whether the API answers at all. Any HTTP response counts;
// only transport failures are errors.
func (g *Gateway) Ping(ctx context.Context) error {
	_, err := g.send(ctx, call{op: "ping", method: http.MethodGet, path: "/roles"})
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.Kind != domain.KindTransport {
		return nil
	}
	return err
}

// call describes one API request.
type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	token    string
	auth     bool
	body     any
	fallback string
}

// do sends c and decodes a 2xx body into out (when non-nil). Every failure
// is returned as a *domain.APIError, except a missing token on an
// authenticated call which returns domain.ErrMissingToken without sending.
func (g *Gateway) do(ctx context.Context, c call, out any) error {
	if c.auth && strings.TrimSpace(c.token) == "" {
		return domain.ErrMissingToken
	}

	start := time.Now()
	raw, err := g.send(ctx, c)
	if err == nil && out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if uerr := json.Unmarshal(raw, out); uerr != nil {
			g.log.Warn().Err(uerr).Str("op", c.op).Msg("undecodable response body")
			err = transportError(uerr)
		}
	}

	outcome := "ok"
	var ae *domain.APIError
	if errors.As(err, &ae) {
		outcome = string(ae.Kind)
	}
	metrics.APIRequestsTotal.WithLabelValues(c.op, outcome).Inc()
	metrics.APIRequestDuration.WithLabelValues(c.op).Observe(time.Since(start).Seconds())
	return err
}

// doRaw is do for callers that need to inspect the body shape themselves.
func (g *Gateway) doRaw(ctx context.Context, c call) ([]byte, error) {
	var raw json.RawMessage
	if err := g.do(ctx, c, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (g *Gateway) send(ctx context.Context, c call) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, transportError(err)
	}

	var body io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, transportError(fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(b)
	}

	target := g.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return nil, transportError(fmt.Errorf("build request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := g.log.With().Str("op", c.op).Str("request_id", requestID).Logger()
	log.Debug().Str("method", c.method).Str("path", c.path).Msg("api request")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("api request failed")
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn().Err(err).Msg("read response body")
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalizeError(resp.StatusCode, raw, c.fallback)
		log.Info().Int("status", resp.StatusCode).Str("kind", string(apiErr.Kind)).Msg("api request rejected")
		return nil, apiErr
	}
	log.Debug().Int("status", resp.StatusCode).Msg("api request done")
	return raw, nil
}

func transportError(err error) *domain.APIError {
	return &domain.APIError{
		Kind:    domain.KindTransport,
		Message: domain.GenericFailureMessage,
		Err:     err,
	}
}

// normalizeError folds the server's error body into one shape. Precedence:
// first message of the first field under "errors", then "message", then
// "error", then the caller's fallback.
func normalizeError(status int, raw []byte, fallback string) *domain.APIError {
	apiErr := &domain.APIError{
		Kind:    domain.KindForStatus(status),
		Status:  status,
		Message: fallback,
	}
	if apiErr.Message == "" {
		apiErr.Message = domain.GenericFailureMessage
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		apiErr.Err = fmt.Errorf("status %d: non-JSON error body", status)
		return apiErr
	}

	if fields := decodeFieldErrors(body["errors"]); len(fields) > 0 {
		apiErr.Fields = fields
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if msgs := fields[name]; len(msgs) > 0 && msgs[0] != "" {
				apiErr.Message = msgs[0]
				break
			}
		}
	} else if msg := stringField(body["message"]); msg != "" {
		apiErr.Message = msg
	} else if msg := stringField(body["error"]); msg != "" {
		apiErr.Message = msg
	}
	apiErr.Err = fmt.Errorf("status %d: %s", status, apiErr.Message)
	return apiErr
}

// decodeFieldErrors accepts {field: [msg...]} and {field: msg}.
func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	if len(raw) == 0 {
		return nil
	}
	var many map[string][]string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one map[string]string
	if err := json.Unmarshal(raw, &one); err == nil {
		out := make(map[string][]string, len(one))
		for k, v := range one {
			out[k] = []string{v}
		}
		return out
	}
	return nil
}

func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
