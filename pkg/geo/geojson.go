package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FeatureCollection is a GeoJSON feature collection of boundary polygons.
// Geometry is carried through untouched for the map front-end.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one boundary polygon with its administrative properties.
type Feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry,omitempty"`
}

// DecodeFeatureCollection reads a FeatureCollection and normalizes department
// codes to their two-character form ("1" -> "01").
func DecodeFeatureCollection(r io.Reader) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	if !strings.EqualFold(fc.Type, "FeatureCollection") {
		return nil, fmt.Errorf("decode geojson: type %q, want FeatureCollection", fc.Type)
	}
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Properties == nil {
			f.Properties = map[string]any{}
		}
		if code := f.Code(); code != "" {
			f.Properties["code"] = code
		}
	}
	return &fc, nil
}

// Name returns the feature's "nom" property, falling back to "name".
func (f Feature) Name() string {
	for _, k := range []string{"nom", "name", "NOM"} {
		if v, ok := f.Properties[k].(string); ok && v != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Code returns the department (or region) code, zero-padded to two characters.
func (f Feature) Code() string {
	var code string
	switch v := f.Properties["code"].(type) {
	case string:
		code = strings.TrimSpace(v)
	case float64:
		code = strconv.Itoa(int(v))
	case json.Number:
		code = v.String()
	}
	return PadCode(code)
}

// PadCode upper-cases a department code and left-pads numeric ones to two digits.
func PadCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// Len is nil-safe.
func (fc *FeatureCollection) Len() int {
	if fc == nil {
		return 0
	}
	return len(fc.Features)
}

// subset returns a new collection sharing the selected features.
func subset(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: "FeatureCollection", Features: features}
}
