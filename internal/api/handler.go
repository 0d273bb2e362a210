package api

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bobby-s-dev/meteoblue-client/pkg/meteoblue"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var startTime = time.Now()

type Handler struct {
	client *meteoblue.Client
	logger *zap.Logger
}

func NewHandler(client *meteoblue.Client, logger *zap.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// SearchLocation handles GET /api/v1/locations/search
func (h *Handler) SearchLocation(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter is required",
		})
	}

	h.logger.Info("Searching location", zap.String("query", query))

	results, err := h.client.SearchLocation(c.Context(), query)
	if err != nil {
		return h.clientError(c, err)
	}

	// No match is a valid outcome, reported as an empty list.
	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}

// GetForecast handles GET /api/v1/forecast
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	coord, ok := h.parseCoordinate(c)
	if !ok {
		return nil // response already written
	}

	var packages []meteoblue.ForecastPackage
	if raw := c.Query("packages"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			pkg, err := meteoblue.ParseForecastPackage(name)
			if err != nil {
				return h.clientError(c, err)
			}
			packages = append(packages, pkg)
		}
	}

	opts, err := h.parseForecastOptions(c)
	if err != nil {
		return h.clientError(c, err)
	}

	h.logger.Info("Fetching forecast",
		zap.Float64("lat", coord.Lat),
		zap.Float64("lon", coord.Lon),
		zap.Int("packages", len(packages)))

	forecast, err := h.client.GetForecast(c.Context(), coord, packages, opts)
	if err != nil {
		return h.clientError(c, err)
	}

	return c.JSON(forecast)
}

// GetImage handles GET /api/v1/images/:type
func (h *Handler) GetImage(c *fiber.Ctx) error {
	// Image type values may contain a slash, so the route parameter is
	// greedy and arrives URL-encoded.
	typeParam, err := url.PathUnescape(c.Params("*"))
	if err != nil || typeParam == "" {
		typeParam = c.Params("*")
	}
	imageType, err := meteoblue.ParseImageType(typeParam)
	if err != nil {
		return h.clientError(c, err)
	}

	coord, ok := h.parseCoordinate(c)
	if !ok {
		return nil
	}

	h.logger.Info("Fetching image",
		zap.String("type", string(imageType)),
		zap.Float64("lat", coord.Lat),
		zap.Float64("lon", coord.Lon))

	image, err := h.client.GetImage(c.Context(), imageType, coord)
	if err != nil {
		return h.clientError(c, err)
	}

	c.Set(fiber.HeaderContentType, image.MIMEType)
	return c.Send(image.Data)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"cache":     h.client.CacheStats(),
	})
}

func (h *Handler) parseCoordinate(c *fiber.Ctx) (meteoblue.Coordinate, bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat and lon query parameters are required numbers",
		})
		return meteoblue.Coordinate{}, false
	}
	return meteoblue.Coordinate{Lat: lat, Lon: lon}, true
}

func (h *Handler) parseForecastOptions(c *fiber.Ctx) (*meteoblue.ForecastOptions, error) {
	opts := &meteoblue.ForecastOptions{}
	var err error

	if v := c.Query("temperature"); v != "" {
		if opts.Units.Temperature, err = meteoblue.ParseTemperatureUnit(v); err != nil {
			return nil, err
		}
	}
	if v := c.Query("windspeed"); v != "" {
		if opts.Units.WindSpeed, err = meteoblue.ParseWindSpeedUnit(v); err != nil {
			return nil, err
		}
	}
	if v := c.Query("precipitationamount"); v != "" {
		if opts.Units.Precipitation, err = meteoblue.ParsePrecipitationUnit(v); err != nil {
			return nil, err
		}
	}
	if v := c.Query("asl"); v != "" {
		asl, err := strconv.Atoi(v)
		if err != nil {
			return nil, &meteoblue.InvalidParameterError{Param: "asl", Value: v}
		}
		opts.Altitude = &asl
	}
	opts.Timezone = c.Query("tz")

	return opts, nil
}

// clientError translates the client's error taxonomy to HTTP statuses:
// caller mistakes are 400, provider rejections 502, network trouble 504.
func (h *Handler) clientError(c *fiber.Ctx, err error) error {
	var invalidErr *meteoblue.InvalidParameterError
	var providerErr *meteoblue.ProviderError
	var transportErr *meteoblue.TransportError
	var malformedErr *meteoblue.MalformedResponseError

	switch {
	case errors.As(err, &invalidErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": invalidErr.Error(),
		})
	case errors.As(err, &providerErr):
		h.logger.Error("Provider rejected request",
			zap.Int("status", providerErr.StatusCode),
			zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":           "Weather provider rejected the request",
			"provider_status": providerErr.StatusCode,
		})
	case errors.As(err, &transportErr):
		h.logger.Error("Provider unreachable", zap.Error(err))
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "Weather provider is unreachable",
		})
	case errors.As(err, &malformedErr):
		h.logger.Error("Provider response malformed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Weather provider returned an unexpected response",
		})
	}

	h.logger.Error("Unexpected client failure", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal error",
	})
}
