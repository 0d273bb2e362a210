// Package meteoblue is a client for the meteoblue weather API. It exposes
// place-name search, multi-package forecast retrieval, and server-rendered
// diagram retrieval, with per-operation response caching.
package meteoblue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobby-s-dev/meteoblue-client/internal/cache"
	"go.uber.org/zap"
)

// Config configures a Client. It is read once at construction; a process
// may hold several independently configured clients.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// Base URLs default to the public meteoblue endpoints.
	SearchBaseURL   string
	ForecastBaseURL string
	ImageBaseURL    string

	// DefaultUnits fill in unit parameters a caller leaves unset.
	DefaultUnits Units

	// Cache tuning. Forecasts stay fresh for hours, place names for far
	// longer, diagrams only long enough to deduplicate within a session.
	SearchTTL     time.Duration // default 12h
	ForecastTTL   time.Duration // default 2h
	ImageTTL      time.Duration // default 15m
	CacheCapacity int           // per cache, default 256

	// Transport performs the HTTP exchanges. Defaults to HTTPTransport.
	Transport Transport

	Logger *zap.Logger
}

// Client is the meteoblue API facade. Safe for concurrent use; concurrent
// identical requests share a single in-flight provider call.
type Client struct {
	cfg       Config
	transport Transport
	logger    *zap.Logger

	searches  *cache.Cache[[]LocationResult]
	forecasts *cache.Cache[*ForecastResult]
	csvData   *cache.Cache[[]byte]
	images    *cache.Cache[*ImagePayload]
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &InvalidParameterError{Param: "api_key", Value: "(empty)"}
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	if cfg.ForecastBaseURL == "" {
		cfg.ForecastBaseURL = DefaultForecastBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.SearchTTL == 0 {
		cfg.SearchTTL = 12 * time.Hour
	}
	if cfg.ForecastTTL == 0 {
		cfg.ForecastTTL = 2 * time.Hour
	}
	if cfg.ImageTTL == 0 {
		cfg.ImageTTL = 15 * time.Minute
	}
	if cfg.CacheCapacity == 0 {
		cfg.CacheCapacity = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Transport == nil {
		cfg.Transport = NewHTTPTransport(TransportConfig{}, cfg.Logger)
	}

	return &Client{
		cfg:       cfg,
		transport: cfg.Transport,
		logger:    cfg.Logger,
		searches:  cache.New[[]LocationResult](cfg.SearchTTL, cfg.CacheCapacity),
		forecasts: cache.New[*ForecastResult](cfg.ForecastTTL, cfg.CacheCapacity),
		csvData:   cache.New[[]byte](cfg.ForecastTTL, cfg.CacheCapacity),
		images:    cache.New[*ImagePayload](cfg.ImageTTL, cfg.CacheCapacity),
	}, nil
}

// SearchLocation looks up places by name, in provider relevance order.
// No match is success with an empty slice; callers decide whether that is
// an error for them.
func (c *Client) SearchLocation(ctx context.Context, query string) ([]LocationResult, error) {
	url, err := c.buildSearchURL(query)
	if err != nil {
		return nil, err
	}

	key := "search|" + strings.ToLower(strings.TrimSpace(query))
	return c.searches.GetOrCompute(key, func() ([]LocationResult, error) {
		body, _, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return parseSearchResponse(body)
	})
}

// GetForecast retrieves the requested forecast packages for a coordinate.
// A nil or empty package list defaults to the daily summary. A nil opts
// uses the client's default units.
func (c *Client) GetForecast(ctx context.Context, coord Coordinate, packages []ForecastPackage, opts *ForecastOptions) (*ForecastResult, error) {
	packages, effective := c.resolveForecast(packages, opts)
	effective.Units.Format = FormatJSON

	url, err := c.buildForecastURL(coord, packages, effective)
	if err != nil {
		return nil, err
	}

	key := forecastCacheKey(coord, packages, effective)
	return c.forecasts.GetOrCompute(key, func() (*ForecastResult, error) {
		body, _, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return parseForecastResponse(body, packages)
	})
}

// GetForecastCSV retrieves the same forecast as raw CSV, passed through
// unparsed for callers that want the provider's tabular form.
func (c *Client) GetForecastCSV(ctx context.Context, coord Coordinate, packages []ForecastPackage, opts *ForecastOptions) ([]byte, error) {
	packages, effective := c.resolveForecast(packages, opts)
	effective.Units.Format = FormatCSV

	url, err := c.buildForecastURL(coord, packages, effective)
	if err != nil {
		return nil, err
	}

	key := forecastCacheKey(coord, packages, effective)
	return c.csvData.GetOrCompute(key, func() ([]byte, error) {
		body, _, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return body, nil
	})
}

// GetImage retrieves a server-rendered diagram. The payload is returned
// as-is; persisting or displaying it is the caller's concern.
func (c *Client) GetImage(ctx context.Context, imageType ImageType, coord Coordinate) (*ImagePayload, error) {
	url, err := c.buildImageURL(imageType, coord)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("image|%s|%s|%s", imageType, formatCoord(coord.Lat), formatCoord(coord.Lon))
	return c.images.GetOrCompute(key, func() (*ImagePayload, error) {
		body, contentType, err := c.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return parseImageResponse(body, contentType)
	})
}

// CacheStats reports hit/miss counters per operation, keyed by operation
// name.
func (c *Client) CacheStats() map[string]map[string]int {
	stats := make(map[string]map[string]int, 4)
	for name, counts := range map[string]interface{ Stats() (int, int) }{
		"search":       c.searches,
		"forecast":     c.forecasts,
		"forecast_csv": c.csvData,
		"image":        c.images,
	} {
		hits, misses := counts.Stats()
		stats[name] = map[string]int{"hits": hits, "misses": misses}
	}
	return stats
}

// fetch performs the transport call and applies the status contract:
// transport failures pass through as *TransportError, non-2xx statuses
// become *ProviderError, and 2xx bodies are handed to the parser.
func (c *Client) fetch(ctx context.Context, url string) (body []byte, contentType string, err error) {
	resp, err := c.transport.Perform(ctx, url)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &ProviderError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return resp.Body, resp.ContentType, nil
}

// resolveForecast applies the package default and fills unset units from
// the client configuration.
func (c *Client) resolveForecast(packages []ForecastPackage, opts *ForecastOptions) ([]ForecastPackage, ForecastOptions) {
	if len(packages) == 0 {
		packages = []ForecastPackage{PackageBasicDay}
	}
	var effective ForecastOptions
	if opts != nil {
		effective = *opts
	}
	if effective.Units.Temperature == "" {
		effective.Units.Temperature = c.cfg.DefaultUnits.Temperature
	}
	if effective.Units.WindSpeed == "" {
		effective.Units.WindSpeed = c.cfg.DefaultUnits.WindSpeed
	}
	if effective.Units.Precipitation == "" {
		effective.Units.Precipitation = c.cfg.DefaultUnits.Precipitation
	}
	return packages, effective
}

// forecastCacheKey folds every response-affecting parameter into the key,
// with coordinates rounded to 4 decimal places, so semantically distinct
// requests never collide.
func forecastCacheKey(coord Coordinate, packages []ForecastPackage, opts ForecastOptions) string {
	names := make([]string, len(packages))
	for i, p := range packages {
		names[i] = string(p)
	}
	asl := ""
	if opts.Altitude != nil {
		asl = fmt.Sprint(*opts.Altitude)
	}
	return strings.Join([]string{
		"forecast",
		formatCoord(coord.Lat),
		formatCoord(coord.Lon),
		strings.Join(names, "_"),
		string(opts.Units.Temperature),
		string(opts.Units.WindSpeed),
		string(opts.Units.Precipitation),
		string(opts.Units.Format),
		asl,
		opts.Timezone,
	}, "|")
}
