package meteoblue

// Coordinate is a WGS84 point. Validate rejects out-of-range values so a
// bad coordinate never costs an API call.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return &InvalidParameterError{Param: "lat", Value: c.Lat, Allowed: []string{"-90..90"}}
	}
	if c.Lon < -180 || c.Lon > 180 {
		return &InvalidParameterError{Param: "lon", Value: c.Lon, Allowed: []string{"-180..180"}}
	}
	return nil
}

// Units bundles the unit and format selection for a forecast request.
// Zero-value fields are omitted from the request, letting the provider
// apply its own defaults.
type Units struct {
	Temperature   TemperatureUnit
	WindSpeed     WindSpeedUnit
	Precipitation PrecipitationUnit
	Format        OutputFormat
}

// ForecastOptions carries the optional parameters of a forecast request.
type ForecastOptions struct {
	Units    Units
	Altitude *int   // meters above sea level
	Timezone string // IANA name, e.g. "Europe/Zurich"
}

// LocationResult is one entry of a place-name search, in provider
// (relevance) order.
type LocationResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Admin1  string  `json:"admin1,omitempty"`
	Asl     float64 `json:"asl,omitempty"`
	Tz      string  `json:"timezone,omitempty"`
}

// Metadata is the envelope block every forecast response carries.
type Metadata struct {
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Height        float64 `json:"height"`
	TimezoneAbbr  string  `json:"timezone_abbrevation"`
	UTCTimeOffset float64 `json:"utc_timeoffset"`
	ModelRunUTC   string  `json:"modelrun_utc"`
}

// PackageData holds the decoded fields of one requested package: a shared
// time axis and one column per field, all truncated to a common length.
type PackageData struct {
	Package ForecastPackage
	// BlockKey is the response key the fields came from (e.g. "data_day").
	BlockKey string
	Time     []string
	Fields   map[string][]interface{}
}

// Floats returns a field as float64 values. The second return is false if
// the field is absent or contains a non-numeric value.
func (d *PackageData) Floats(name string) ([]float64, bool) {
	col, ok := d.Fields[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(col))
	for _, v := range col {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// ForecastResult is the parsed forecast response: envelope metadata plus
// one PackageData per requested package, in request order.
type ForecastResult struct {
	Metadata Metadata
	Packages []PackageData
}

// Package returns the data for one requested package.
func (r *ForecastResult) Package(p ForecastPackage) (*PackageData, bool) {
	for i := range r.Packages {
		if r.Packages[i].Package == p {
			return &r.Packages[i], true
		}
	}
	return nil, false
}

// ImagePayload is a server-rendered diagram. The client does not persist
// it; storage is the caller's concern.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}
