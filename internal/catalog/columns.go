package catalog

import "strings"

// Field is a logical column a tabular source may carry under different
// header names.
type Field int

const (
	FieldID Field = iota
	FieldName
	FieldCategory
	FieldLatitude
	FieldLongitude
)

var fieldSynonyms = map[Field][]string{
	FieldID:        {"venueId", "venue_id", "poi_id", "poiId", "placeId", "place_id"},
	FieldName:      {"venueName", "venue_name", "poi_name", "name", "title"},
	FieldCategory:  {"venueCategory", "venue_category", "category", "type"},
	FieldLatitude:  {"latitude", "lat"},
	FieldLongitude: {"longitude", "lon", "lng"},
}

func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldName:
		return "name"
	case FieldCategory:
		return "category"
	case FieldLatitude:
		return "latitude"
	case FieldLongitude:
		return "longitude"
	default:
		return "unknown"
	}
}

// Synonyms returns the accepted header names in priority order.
func (f Field) Synonyms() []string {
	return fieldSynonyms[f]
}

// ResolveColumn finds the header index for field. An exact
// (case-insensitive) header match on any synonym wins over a substring
// match; within each pass synonyms are tried in priority order and headers
// left to right. It returns -1 when nothing matches.
func ResolveColumn(headers []string, field Field) int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}

	synonyms := field.Synonyms()
	for _, syn := range synonyms {
		s := strings.ToLower(syn)
		for i, h := range lower {
			if h == s {
				return i
			}
		}
	}
	for _, syn := range synonyms {
		s := strings.ToLower(syn)
		for i, h := range lower {
			if strings.Contains(h, s) {
				return i
			}
		}
	}
	return -1
}

// columnSet maps logical fields to header indexes for one source.
type columnSet map[Field]int

func resolveColumns(source string, headers []string, required, optional []Field) (columnSet, error) {
	cols := make(columnSet, len(required)+len(optional))
	for _, f := range required {
		idx := ResolveColumn(headers, f)
		if idx < 0 {
			return nil, &SchemaError{Source: source, Field: f, Headers: headers}
		}
		cols[f] = idx
	}
	for _, f := range optional {
		if idx := ResolveColumn(headers, f); idx >= 0 {
			cols[f] = idx
		}
	}
	return cols, nil
}

func (c columnSet) value(row []string, f Field) string {
	idx, ok := c[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
