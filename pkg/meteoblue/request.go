package meteoblue

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default endpoints of the meteoblue API.
const (
	DefaultForecastBaseURL = "https://my.meteoblue.com/packages"
	DefaultImageBaseURL    = "https://my.meteoblue.com/visimage"
	DefaultSearchBaseURL   = "https://www.meteoblue.com/en/server/search/query3"
)

// buildSearchURL constructs the place-name search URL. Pure string work,
// no network I/O.
func (c *Client) buildSearchURL(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", &InvalidParameterError{Param: "query", Value: query}
	}
	params := url.Values{}
	params.Set("apikey", c.cfg.APIKey)
	params.Set("query", query)
	return c.cfg.SearchBaseURL + "?" + params.Encode(), nil
}

// buildForecastURL constructs the packages URL. Package order is preserved
// in the path segment; the parser relies on the same order to resolve the
// response blocks.
func (c *Client) buildForecastURL(coord Coordinate, packages []ForecastPackage, opts ForecastOptions) (string, error) {
	if err := coord.Validate(); err != nil {
		return "", err
	}
	if len(packages) == 0 {
		return "", &InvalidParameterError{Param: "packages", Value: "[]", Allowed: packageStrings()}
	}

	names := make([]string, len(packages))
	for i, p := range packages {
		names[i] = string(p)
	}

	params := url.Values{}
	params.Set("apikey", c.cfg.APIKey)
	params.Set("lat", formatCoord(coord.Lat))
	params.Set("lon", formatCoord(coord.Lon))
	format := opts.Units.Format
	if format == "" {
		format = FormatJSON
	}
	params.Set("format", string(format))
	if opts.Altitude != nil {
		params.Set("asl", strconv.Itoa(*opts.Altitude))
	}
	if opts.Timezone != "" {
		params.Set("tz", opts.Timezone)
	}
	if opts.Units.Temperature != "" {
		params.Set("temperature", string(opts.Units.Temperature))
	}
	if opts.Units.WindSpeed != "" {
		params.Set("windspeed", string(opts.Units.WindSpeed))
	}
	if opts.Units.Precipitation != "" {
		params.Set("precipitationamount", string(opts.Units.Precipitation))
	}

	return fmt.Sprintf("%s/%s?%s", c.cfg.ForecastBaseURL, strings.Join(names, "_"), params.Encode()), nil
}

// buildImageURL constructs the visimage URL.
func (c *Client) buildImageURL(imageType ImageType, coord Coordinate) (string, error) {
	if _, err := ParseImageType(string(imageType)); err != nil {
		return "", err
	}
	if err := coord.Validate(); err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("apikey", c.cfg.APIKey)
	params.Set("lat", formatCoord(coord.Lat))
	params.Set("lon", formatCoord(coord.Lon))
	return fmt.Sprintf("%s/%s?%s", c.cfg.ImageBaseURL, imageType, params.Encode()), nil
}

// formatCoord renders a coordinate with 4 decimal places, the same
// precision used for cache keys, so a key never maps to two URLs.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
