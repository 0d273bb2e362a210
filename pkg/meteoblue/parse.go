package meteoblue

import (
	"encoding/json"
	"strings"
)

// parseSearchResponse decodes a place-name search payload. The endpoint
// wraps matches in a "results" array; a bare top-level array is accepted
// too. An empty list is a valid outcome, not an error.
func parseSearchResponse(raw []byte) ([]LocationResult, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var results []LocationResult
		if err := json.Unmarshal(raw, &results); err != nil {
			return nil, &MalformedResponseError{Reason: "search response is not a location array: " + err.Error()}
		}
		return results, nil
	}

	var envelope struct {
		Results []LocationResult `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &MalformedResponseError{Reason: "search response is not valid JSON: " + err.Error()}
	}
	if envelope.Results == nil {
		return []LocationResult{}, nil
	}
	return envelope.Results, nil
}

// parseForecastResponse decodes a packages payload into one PackageData
// per requested package, in request order. Unknown fields are ignored,
// missing fields stay absent, and ragged columns are truncated to the
// shortest length since the time axis is shared within a block.
func parseForecastResponse(raw []byte, packages []ForecastPackage) (*ForecastResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &MalformedResponseError{Reason: "forecast response is not a JSON object: " + err.Error()}
	}

	metaRaw, ok := envelope["metadata"]
	if !ok {
		return nil, &MalformedResponseError{Reason: "missing metadata block"}
	}
	var meta Metadata
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, &MalformedResponseError{Reason: "metadata block is not an object: " + err.Error()}
	}

	result := &ForecastResult{Metadata: meta}
	for _, p := range packages {
		key := p.dataKey()
		blockRaw, ok := envelope[key]
		if !ok {
			return nil, &MalformedResponseError{Reason: "missing data block " + key + " for package " + string(p)}
		}
		data, err := parseDataBlock(p, key, blockRaw)
		if err != nil {
			return nil, err
		}
		result.Packages = append(result.Packages, *data)
	}
	return result, nil
}

func parseDataBlock(p ForecastPackage, key string, raw []byte) (*PackageData, error) {
	var block map[string]json.RawMessage
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, &MalformedResponseError{Reason: "data block " + key + " is not an object: " + err.Error()}
	}

	data := &PackageData{
		Package:  p,
		BlockKey: key,
		Fields:   make(map[string][]interface{}, len(block)),
	}

	shortest := -1
	for name, colRaw := range block {
		var col []interface{}
		if err := json.Unmarshal(colRaw, &col); err != nil {
			// Scalar fields (e.g. a shared interval value) are not columns.
			continue
		}
		if name == "time" {
			data.Time = toStrings(col)
			if shortest < 0 || len(data.Time) < shortest {
				shortest = len(data.Time)
			}
			continue
		}
		data.Fields[name] = col
		if shortest < 0 || len(col) < shortest {
			shortest = len(col)
		}
	}

	if shortest >= 0 {
		if len(data.Time) > shortest {
			data.Time = data.Time[:shortest]
		}
		for name, col := range data.Fields {
			if len(col) > shortest {
				data.Fields[name] = col[:shortest]
			}
		}
	}
	return data, nil
}

func toStrings(col []interface{}) []string {
	out := make([]string, 0, len(col))
	for _, v := range col {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// parseImageResponse validates a diagram payload. The provider declares an
// image/* content type for every diagram variant; anything else means the
// body is an HTML error page or similar.
func parseImageResponse(raw []byte, contentType string) (*ImagePayload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &MalformedResponseError{Reason: "unexpected content type " + contentType}
	}
	if len(raw) == 0 {
		return nil, &MalformedResponseError{Reason: "empty image payload"}
	}
	return &ImagePayload{Data: raw, MIMEType: contentType}, nil
}
