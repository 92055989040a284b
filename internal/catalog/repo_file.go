package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads a catalog from a CSV file with a deck_name, deck_url,
// deck_summary, tags header. Column order follows the header row.
func LoadCSV(path string) ([]CaseStudy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]CaseStudy, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog csv: read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameIdx, ok := cols["deck_name"]
	if !ok {
		return nil, fmt.Errorf("catalog csv: missing deck_name column")
	}

	var out []CaseStudy
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog csv: read row: %w", err)
		}
		cs := CaseStudy{DeckName: field(record, nameIdx)}
		if cs.DeckName == "" {
			continue
		}
		if i, ok := cols["deck_url"]; ok {
			cs.DeckURL = field(record, i)
		}
		if i, ok := cols["deck_summary"]; ok {
			cs.DeckSummary = field(record, i)
		}
		if i, ok := cols["tags"]; ok {
			cs.Tags = field(record, i)
		}
		out = append(out, cs)
	}
	return out, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// LoadJSON reads a catalog from a JSON array of case studies.
func LoadJSON(path string) ([]CaseStudy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []CaseStudy
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("catalog json: %w", err)
	}
	return out, nil
}

// FileRepo serves a catalog loaded from disk. Writes are rejected so the
// source file stays authoritative.
type FileRepo struct {
	entries []CaseStudy
}

// NewFileRepo loads the catalog from the CSV path, falling back to the
// JSON mirror when the CSV is missing or unreadable.
func NewFileRepo(csvPath string, jsonPath string) (*FileRepo, error) {
	entries, err := LoadFile(csvPath, jsonPath)
	if err != nil {
		return nil, err
	}
	return &FileRepo{entries: entries}, nil
}

func (r *FileRepo) List(ctx context.Context) ([]CaseStudy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]CaseStudy, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *FileRepo) FindByName(ctx context.Context, name string) (CaseStudy, error) {
	if err := ctx.Err(); err != nil {
		return CaseStudy{}, err
	}
	want := NormalizeName(name)
	for _, cs := range r.entries {
		if NormalizeName(cs.DeckName) == want {
			return cs, nil
		}
	}
	return CaseStudy{}, ErrNotFound
}

func (r *FileRepo) Create(ctx context.Context, cs CaseStudy) error {
	return ErrReadOnly
}

// LoadFile loads a catalog from the CSV path, falling back to the JSON
// mirror when the CSV is missing or unreadable.
func LoadFile(csvPath string, jsonPath string) ([]CaseStudy, error) {
	if csvPath != "" {
		entries, err := LoadCSV(csvPath)
		if err == nil {
			return entries, nil
		}
		if jsonPath == "" {
			return nil, err
		}
	}
	if jsonPath == "" {
		return nil, fmt.Errorf("catalog: no source file configured")
	}
	return LoadJSON(jsonPath)
}
