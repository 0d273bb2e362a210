package meteoblue

import "strings"

// ForecastPackage identifies one of the data bundles the meteoblue
// packages API can return. The value is the wire string used in the
// request path.
type ForecastPackage string

const (
	PackageBasic1H  ForecastPackage = "basic-1h"
	PackageBasicDay ForecastPackage = "basic-day"
	PackageCurrent  ForecastPackage = "current"
	PackageClouds   ForecastPackage = "clouds"
	PackageSunMoon  ForecastPackage = "sun_moon"
	PackageAgro     ForecastPackage = "agro"
	PackageSolar    ForecastPackage = "solar"
	PackageWind     ForecastPackage = "wind"
	PackageSea      ForecastPackage = "sea"
	PackageAir      ForecastPackage = "air"
	PackageTrend    ForecastPackage = "trend"
)

var forecastPackages = []ForecastPackage{
	PackageBasic1H, PackageBasicDay, PackageCurrent, PackageClouds,
	PackageSunMoon, PackageAgro, PackageSolar, PackageWind,
	PackageSea, PackageAir, PackageTrend,
}

// packageAliases maps the spellings the tool layer historically accepted
// onto canonical package values.
var packageAliases = map[string]ForecastPackage{
	"basic_1h":     PackageBasic1H,
	"hourly":       PackageBasic1H,
	"basic_day":    PackageBasicDay,
	"daily":        PackageBasicDay,
	"cloud":        PackageClouds,
	"sun-moon":     PackageSunMoon,
	"sun":          PackageSunMoon,
	"moon":         PackageSunMoon,
	"agricultural": PackageAgro,
	"marine":       PackageSea,
	"air_quality":  PackageAir,
	"air-quality":  PackageAir,
	"14day":        PackageTrend,
	"14-day":       PackageTrend,
}

// ParseForecastPackage resolves a package name, accepting both canonical
// wire values and common aliases ("hourly", "daily", "marine", ...).
func ParseForecastPackage(s string) (ForecastPackage, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, p := range forecastPackages {
		if string(p) == v {
			return p, nil
		}
	}
	if p, ok := packageAliases[v]; ok {
		return p, nil
	}
	return "", &InvalidParameterError{
		Param:   "package",
		Value:   s,
		Allowed: packageStrings(),
	}
}

func packageStrings() []string {
	out := make([]string, len(forecastPackages))
	for i, p := range forecastPackages {
		out[i] = string(p)
	}
	return out
}

// dataKey returns the response block that carries this package's fields.
// Hourly-cadence packages share the data_1h axis, daily-cadence packages
// share data_day, and current/trend have blocks of their own.
func (p ForecastPackage) dataKey() string {
	switch p {
	case PackageBasic1H, PackageClouds, PackageSolar, PackageWind, PackageSea, PackageAir:
		return "data_1h"
	case PackageBasicDay, PackageSunMoon, PackageAgro:
		return "data_day"
	case PackageCurrent:
		return "data_current"
	case PackageTrend:
		return "trend_day"
	}
	return ""
}

// ImageType identifies a server-rendered diagram variant. The value is
// the wire string used in the visimage request path.
type ImageType string

const (
	ImageMeteogram14Day           ImageType = "meteogram_14day"
	ImageMeteogramClimate         ImageType = "meteogram_climate"
	ImageMeteogramCurrentClimate  ImageType = "meteogram_currentOnClimate"
	ImageMeteogramClimateYear     ImageType = "meteogram_climateYear"
	ImageClimateModelTempPrecip   ImageType = "climate_model/temp_precip"
	ImageMeteogramClimateWindRose ImageType = "meteogram_climate_wind_rose"
)

var imageTypes = []ImageType{
	ImageMeteogram14Day, ImageMeteogramClimate, ImageMeteogramCurrentClimate,
	ImageMeteogramClimateYear, ImageClimateModelTempPrecip, ImageMeteogramClimateWindRose,
}

// ParseImageType resolves an image type from its wire string.
func ParseImageType(s string) (ImageType, error) {
	v := strings.TrimSpace(s)
	for _, t := range imageTypes {
		if string(t) == v {
			return t, nil
		}
	}
	allowed := make([]string, len(imageTypes))
	for i, t := range imageTypes {
		allowed[i] = string(t)
	}
	return "", &InvalidParameterError{Param: "image_type", Value: s, Allowed: allowed}
}

// TemperatureUnit selects the temperature scale of forecast values.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "C":
		return Celsius, nil
	case "F":
		return Fahrenheit, nil
	}
	return "", &InvalidParameterError{Param: "temperature", Value: s, Allowed: []string{"C", "F"}}
}

// WindSpeedUnit selects the wind speed unit of forecast values.
type WindSpeedUnit string

const (
	MetersPerSecond WindSpeedUnit = "ms-1"
	KilometersHour  WindSpeedUnit = "kmh"
	MilesPerHour    WindSpeedUnit = "mph"
	Knots           WindSpeedUnit = "kn"
)

func ParseWindSpeedUnit(s string) (WindSpeedUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ms-1":
		return MetersPerSecond, nil
	case "kmh":
		return KilometersHour, nil
	case "mph":
		return MilesPerHour, nil
	case "kn":
		return Knots, nil
	}
	return "", &InvalidParameterError{Param: "windspeed", Value: s, Allowed: []string{"ms-1", "kmh", "mph", "kn"}}
}

// PrecipitationUnit selects the precipitation amount unit.
type PrecipitationUnit string

const (
	Millimeter PrecipitationUnit = "mm"
	Inch       PrecipitationUnit = "inch"
)

func ParsePrecipitationUnit(s string) (PrecipitationUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm":
		return Millimeter, nil
	case "inch":
		return Inch, nil
	}
	return "", &InvalidParameterError{Param: "precipitationamount", Value: s, Allowed: []string{"mm", "inch"}}
}

// OutputFormat selects the forecast response encoding.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", &InvalidParameterError{Param: "format", Value: s, Allowed: []string{"json", "csv"}}
}
