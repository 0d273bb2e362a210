package meteoblue

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Response is the raw outcome of one HTTP exchange. Status interpretation
// belongs to the client facade, not the transport.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Transport performs a single GET against the provider. Implementations
// own connection-level concerns (TLS, redirects, timeouts) and must not
// retry; a network failure surfaces as *TransportError.
type Transport interface {
	Perform(ctx context.Context, url string) (*Response, error)
}

// TransportConfig tunes the default HTTP transport.
type TransportConfig struct {
	Timeout time.Duration
	// RequestsPerSecond caps the call rate against the provider quota.
	// Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
	BreakerTimeout    time.Duration
}

// HTTPTransport is the default Transport: a timed net/http client behind a
// rate limiter and a circuit breaker. The breaker fails fast while the
// provider is unreachable; it never replays a request.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewHTTPTransport(config TransportConfig, logger *zap.Logger) *HTTPTransport {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Burst == 0 {
		config.Burst = 1
	}
	if config.BreakerTimeout == 0 {
		config.BreakerTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	}

	breakerSettings := gobreaker.Settings{
		Name:        "meteoblue",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &HTTPTransport{
		client:  &http.Client{Timeout: config.Timeout},
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker(breakerSettings),
		logger:  logger,
	}
}

// Perform executes one GET. Non-2xx statuses are returned in the Response,
// not as errors; only exchange failures produce a *TransportError.
func (t *HTTPTransport) Perform(ctx context.Context, url string) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: url, Err: err}
		}
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := t.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		t.logger.Debug("Provider request completed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.Int("body_size", len(body)))

		return &Response{
			StatusCode:  resp.StatusCode,
			Body:        body,
			ContentType: resp.Header.Get("Content-Type"),
		}, nil
	})
	if err != nil {
		t.logger.Warn("Provider request failed",
			zap.String("url", url),
			zap.Error(err))
		return nil, &TransportError{URL: url, Err: err}
	}

	return result.(*Response), nil
}

var _ Transport = (*HTTPTransport)(nil)
