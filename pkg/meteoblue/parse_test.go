package meteoblue

import (
	"errors"
	"testing"
)

func TestParseSearchResponseEmpty(t *testing.T) {
	for _, raw := range []string{`[]`, `{"results":[]}`, `{}`} {
		results, err := parseSearchResponse([]byte(raw))
		if err != nil {
			t.Errorf("parseSearchResponse(%s) failed: %v", raw, err)
			continue
		}
		if len(results) != 0 {
			t.Errorf("parseSearchResponse(%s) = %d results, want 0", raw, len(results))
		}
	}
}

func TestParseSearchResponseBasel(t *testing.T) {
	raw := `{"results":[{"name":"Basel","lat":47.56,"lon":7.57,"country":"Switzerland"},{"name":"Basel-Landschaft","lat":47.48,"lon":7.74,"country":"Switzerland"}]}`

	results, err := parseSearchResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parseSearchResponse failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// Provider order is relevance order and must be preserved.
	first := results[0]
	if first.Name != "Basel" || first.Country != "Switzerland" ||
		first.Lat != 47.56 || first.Lon != 7.57 {
		t.Errorf("unexpected first result: %+v", first)
	}
}

func TestParseSearchResponseBareArray(t *testing.T) {
	raw := `[{"name":"Basel","lat":47.56,"lon":7.57,"country":"Switzerland"}]`
	results, err := parseSearchResponse([]byte(raw))
	if err != nil {
		t.Fatalf("parseSearchResponse failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "Basel" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestParseSearchResponseInvalid(t *testing.T) {
	_, err := parseSearchResponse([]byte(`<html>`))
	var malformedErr *MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestParseForecastResponseRoundTrip(t *testing.T) {
	raw := `{
		"metadata": {"name":"Basel","latitude":47.56,"longitude":7.57,"modelrun_utc":"2026-08-28 00:00"},
		"units": {"temperature":"C"},
		"data_day": {
			"time": ["2026-08-28","2026-08-29","2026-08-30","2026-08-31","2026-09-01","2026-09-02","2026-09-03"],
			"temperature_max": [20.1, 21.0, 19.5, 18.2, 22.3, 23.1, 20.0]
		}
	}`

	result, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasicDay})
	if err != nil {
		t.Fatalf("parseForecastResponse failed: %v", err)
	}

	if result.Metadata.Name != "Basel" || result.Metadata.Latitude != 47.56 {
		t.Errorf("unexpected metadata: %+v", result.Metadata)
	}
	if len(result.Packages) != 1 {
		t.Fatalf("got %d packages, want 1", len(result.Packages))
	}

	day, ok := result.Package(PackageBasicDay)
	if !ok {
		t.Fatal("basic-day package missing from result")
	}
	temps, ok := day.Floats("temperature_max")
	if !ok {
		t.Fatal("temperature_max field missing")
	}
	want := []float64{20.1, 21.0, 19.5, 18.2, 22.3, 23.1, 20.0}
	if len(temps) != len(want) {
		t.Fatalf("got %d values, want %d", len(temps), len(want))
	}
	for i := range want {
		if temps[i] != want[i] {
			t.Errorf("temperature_max[%d] = %v, want %v", i, temps[i], want[i])
		}
	}
	if len(day.Time) != 7 || day.Time[0] != "2026-08-28" {
		t.Errorf("unexpected time axis: %v", day.Time)
	}
}

func TestParseForecastResponseMultiplePackages(t *testing.T) {
	raw := `{
		"metadata": {"name":"Basel"},
		"data_1h": {"time":["2026-08-28 00:00"],"temperature":[17.2]},
		"data_day": {"time":["2026-08-28"],"temperature_max":[20.1]}
	}`

	result, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasic1H, PackageBasicDay})
	if err != nil {
		t.Fatalf("parseForecastResponse failed: %v", err)
	}
	if len(result.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(result.Packages))
	}
	// Request order is preserved.
	if result.Packages[0].Package != PackageBasic1H || result.Packages[1].Package != PackageBasicDay {
		t.Errorf("package order not preserved: %v, %v",
			result.Packages[0].Package, result.Packages[1].Package)
	}
}

func TestParseForecastResponseRaggedArrays(t *testing.T) {
	raw := `{
		"metadata": {"name":"Basel"},
		"data_day": {
			"time": ["d1","d2","d3","d4","d5","d6","d7"],
			"temperature_max": [20.1, 21.0, 19.5, 18.2, 22.3, 23.1, 20.0],
			"temperature_min": [10.0, 11.2, 9.8, 8.5, 12.0]
		}
	}`

	result, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasicDay})
	if err != nil {
		t.Fatalf("parseForecastResponse failed: %v", err)
	}

	day := result.Packages[0]
	// The time axis is shared within a block, so all columns truncate to
	// the shortest.
	if len(day.Time) != 5 {
		t.Errorf("time truncated to %d entries, want 5", len(day.Time))
	}
	for name, col := range day.Fields {
		if len(col) != 5 {
			t.Errorf("field %s truncated to %d entries, want 5", name, len(col))
		}
	}
}

func TestParseForecastResponseMissingOptionalField(t *testing.T) {
	raw := `{
		"metadata": {"name":"Basel"},
		"data_day": {"time":["d1"],"temperature_max":[20.1]}
	}`

	result, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasicDay})
	if err != nil {
		t.Fatalf("parseForecastResponse failed: %v", err)
	}
	if _, ok := result.Packages[0].Fields["precipitation"]; ok {
		t.Error("absent field should stay absent, not default to zero values")
	}
}

func TestParseForecastResponseMissingMetadata(t *testing.T) {
	raw := `{"data_day":{"time":["d1"],"temperature_max":[20.1]}}`
	_, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasicDay})
	var malformedErr *MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError for missing metadata, got %v", err)
	}
}

func TestParseForecastResponseMissingBlock(t *testing.T) {
	raw := `{"metadata":{"name":"Basel"},"data_day":{"time":["d1"]}}`
	_, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasic1H})
	var malformedErr *MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError for missing data_1h, got %v", err)
	}
}

func TestParseForecastResponseUnknownFieldsIgnored(t *testing.T) {
	raw := `{
		"metadata": {"name":"Basel"},
		"experimental_block": {"whatever": true},
		"data_day": {"time":["d1"],"temperature_max":[20.1],"future_field":[1.0]}
	}`

	result, err := parseForecastResponse([]byte(raw), []ForecastPackage{PackageBasicDay})
	if err != nil {
		t.Fatalf("unknown fields must not be fatal: %v", err)
	}
	if _, ok := result.Packages[0].Fields["future_field"]; !ok {
		t.Error("unknown array fields inside a block should still be decoded")
	}
}

func TestParseImageResponse(t *testing.T) {
	payload, err := parseImageResponse([]byte{0x89, 0x50, 0x4e, 0x47}, "image/png")
	if err != nil {
		t.Fatalf("parseImageResponse failed: %v", err)
	}
	if payload.MIMEType != "image/png" || len(payload.Data) != 4 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestParseImageResponseWrongContentType(t *testing.T) {
	_, err := parseImageResponse([]byte("<html>login required</html>"), "text/html")
	var malformedErr *MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestParseImageResponseEmptyBody(t *testing.T) {
	_, err := parseImageResponse(nil, "image/png")
	var malformedErr *MalformedResponseError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}
