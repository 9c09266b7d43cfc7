package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// EmbeddingRecord is one vector keyed by POI identifier.
type EmbeddingRecord struct {
	ID     string
	Vector []float64
}

// Record is one row of a tabular source. Fields the source does not carry
// are left empty or nil.
type Record struct {
	ID       string
	Name     string
	Category string
	Location *Location
}

type EmbeddingSource interface {
	LoadEmbeddings(ctx context.Context) ([]EmbeddingRecord, error)
}

type RecordSource interface {
	LoadRecords(ctx context.Context) ([]Record, error)
}

// Sources bundles the inputs of Load. Landmarks is optional.
type Sources struct {
	Embeddings EmbeddingSource
	Metadata   RecordSource
	Names      RecordSource
	Landmarks  RecordSource
}

// EmbeddingFile picks a reader from the file extension: .json or .csv.
func EmbeddingFile(path string) EmbeddingSource {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return CSVEmbeddings{Path: path}
	}
	return JSONEmbeddings{Path: path}
}

// JSONEmbeddings reads a JSON object mapping identifiers to numeric arrays.
// Key order in the file becomes catalog iteration order.
type JSONEmbeddings struct {
	Path string
}

func (s JSONEmbeddings) LoadEmbeddings(ctx context.Context) ([]EmbeddingRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	tok, err := dec.Token()
	if err != nil {
		return nil, &LoadError{Source: s.Path, Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &LoadError{Source: s.Path, Err: errors.New("expected a JSON object of id -> vector")}
	}

	var out []EmbeddingRecord
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := dec.Token()
		if err != nil {
			return nil, &LoadError{Source: s.Path, Err: err}
		}
		id, ok := tok.(string)
		if !ok {
			return nil, &LoadError{Source: s.Path, Err: fmt.Errorf("unexpected key %v", tok)}
		}
		var vec []float64
		if err := dec.Decode(&vec); err != nil {
			return nil, &LoadError{Source: s.Path, Err: fmt.Errorf("vector for %q: %w", id, err)}
		}
		out = append(out, EmbeddingRecord{ID: id, Vector: vec})
	}
	return out, nil
}

// CSVEmbeddings reads rows of "id,v0,v1,...". A header row is detected when
// its second cell is not numeric.
type CSVEmbeddings struct {
	Path string
}

func (s CSVEmbeddings) LoadEmbeddings(ctx context.Context) ([]EmbeddingRecord, error) {
	rows, err := readCSV(s.Path)
	if err != nil {
		return nil, err
	}

	var out []EmbeddingRecord
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) < 2 {
			return nil, &LoadError{Source: s.Path, Err: fmt.Errorf("line %d: expected id and at least one value", i+1)}
		}
		if i == 0 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64); err != nil {
				continue
			}
		}
		vec := make([]float64, len(row)-1)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &LoadError{Source: s.Path, Err: fmt.Errorf("line %d column %d: %w", i+1, j+2, err)}
			}
			vec[j] = v
		}
		out = append(out, EmbeddingRecord{ID: strings.TrimSpace(row[0]), Vector: vec})
	}
	return out, nil
}

// CSVRecords reads a tabular source whose headers are matched to logical
// fields with ResolveColumn.
type CSVRecords struct {
	Path     string
	Required []Field
	Optional []Field
}

// MetadataFile expects id, category, latitude and longitude columns.
func MetadataFile(path string) CSVRecords {
	return CSVRecords{
		Path:     path,
		Required: []Field{FieldID, FieldCategory, FieldLatitude, FieldLongitude},
	}
}

// NamesFile expects id and name columns.
func NamesFile(path string) CSVRecords {
	return CSVRecords{Path: path, Required: []Field{FieldID, FieldName}}
}

// LandmarkFile only requires an id column; name, category and coordinates
// are used when present.
func LandmarkFile(path string) CSVRecords {
	return CSVRecords{
		Path:     path,
		Required: []Field{FieldID},
		Optional: []Field{FieldName, FieldCategory, FieldLatitude, FieldLongitude},
	}
}

func (s CSVRecords) LoadRecords(ctx context.Context) ([]Record, error) {
	rows, err := readCSV(s.Path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &LoadError{Source: s.Path, Err: errors.New("empty file")}
	}

	cols, err := resolveColumns(s.Path, rows[0], s.Required, s.Optional)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := cols.value(row, FieldID)
		if id == "" {
			continue
		}
		out = append(out, Record{
			ID:       id,
			Name:     cols.value(row, FieldName),
			Category: cols.value(row, FieldCategory),
			Location: parseLocation(cols.value(row, FieldLatitude), cols.value(row, FieldLongitude)),
		})
	}
	return out, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(stripBOM(bufio.NewReader(f)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return rows, nil
}

func stripBOM(r *bufio.Reader) io.Reader {
	if b, err := r.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// parseLocation returns nil unless both cells hold an in-range coordinate.
func parseLocation(lat, lon string) *Location {
	if lat == "" || lon == "" {
		return nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil
	}
	loc := Location{Lat: la, Lon: lo}
	if !loc.Valid() {
		return nil
	}
	return &loc
}
