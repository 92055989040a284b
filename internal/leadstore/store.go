package leadstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"bdengine-backend/internal/shared/storage/object"
	"bdengine-backend/internal/shared/telemetry"
)

// Artifact names within a lead folder.
const (
	ArtifactLead        = "lead.json"
	ArtifactPersona     = "persona.json"
	ArtifactEmailStatus = "email_status.json"
	ArtifactColdEmail   = "cold_email.txt"
	ArtifactChat        = "chat.json"
	ArtifactMeta        = "meta.csv"
	ArtifactPosts       = "linkedin_posts.json"
)

// CombinedCSV is the per-partition summary object name.
const CombinedCSV = "combined.csv"

var (
	// ErrNotFound is returned for absent or undecodable artifacts.
	ErrNotFound = errors.New("artifact not found")
	// ErrAlreadyExists rejects a claim on an artifact that is already ready.
	ErrAlreadyExists = errors.New("artifact already exists")
	// ErrGenerating rejects a claim while another generation holds the artifact.
	ErrGenerating = errors.New("artifact generation in progress")
)

// Ref addresses one lead folder: a date partition plus the storage-safe name.
type Ref struct {
	Partition string
	Name      string
}

func (r Ref) String() string {
	return r.Partition + "/" + r.Name
}

// Store provides typed access to per-lead artifacts over the blob store.
type Store struct {
	store object.ObjectStore
	locks keyLocks
}

// New constructs a Store over the given bucket-scoped object store.
func New(store object.ObjectStore) *Store {
	return &Store{store: store}
}

// ListPartitions returns date partitions, newest first.
func (s *Store) ListPartitions(ctx context.Context) ([]string, error) {
	entries, err := s.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir {
			out = append(out, e.Name)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// ListLeads returns the lead folder names under a partition.
func (s *Store) ListLeads(ctx context.Context, partition string) ([]string, error) {
	entries, err := s.store.List(ctx, partition)
	if err != nil {
		return nil, fmt.Errorf("list leads in %s: %w", partition, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir {
			out = append(out, e.Name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// HasArtifact reports whether an artifact object exists for the lead.
func (s *Store) HasArtifact(ctx context.Context, ref Ref, artifact string) (bool, error) {
	_, err := s.store.Download(ctx, s.key(ref, artifact))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReadJSON decodes the artifact into v. Missing objects and decode failures
// both read as absent; decode failures are logged.
func (s *Store) ReadJSON(ctx context.Context, ref Ref, artifact string, v any) error {
	data, err := s.store.Download(ctx, s.key(ref, artifact))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("download %s/%s: %w", ref, artifact, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		telemetry.Error("leadstore.decode_failed", map[string]any{
			"lead":     ref.String(),
			"artifact": artifact,
			"error":    err.Error(),
		})
		return ErrNotFound
	}
	return nil
}

// WriteJSON persists v as an indented JSON artifact.
func (s *Store) WriteJSON(ctx context.Context, ref Ref, artifact string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", ref, artifact, err)
	}
	return s.upload(ctx, s.key(ref, artifact), "application/json", data)
}

// WriteRawJSON persists a raw JSON document unchanged.
func (s *Store) WriteRawJSON(ctx context.Context, ref Ref, artifact string, raw json.RawMessage) error {
	return s.upload(ctx, s.key(ref, artifact), "application/json", raw)
}

// ReadText reads a plain-text artifact. Missing objects read as absent.
func (s *Store) ReadText(ctx context.Context, ref Ref, artifact string) (string, error) {
	data, err := s.store.Download(ctx, s.key(ref, artifact))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("download %s/%s: %w", ref, artifact, err)
	}
	return string(data), nil
}

// WriteText persists a plain-text artifact.
func (s *Store) WriteText(ctx context.Context, ref Ref, artifact, text string) error {
	return s.upload(ctx, s.key(ref, artifact), "text/plain", []byte(text))
}

// WriteLeadCSV persists the single-row meta.csv for a lead.
func (s *Store) WriteLeadCSV(ctx context.Context, ref Ref, header []string, row []string) error {
	data, err := renderCSV(header, [][]string{row})
	if err != nil {
		return err
	}
	return s.upload(ctx, s.key(ref, ArtifactMeta), "text/csv", data)
}

// WriteCombinedCSV persists the partition-wide summary table.
func (s *Store) WriteCombinedCSV(ctx context.Context, partition string, header []string, rows [][]string) error {
	data, err := renderCSV(header, rows)
	if err != nil {
		return err
	}
	return s.upload(ctx, partition+"/"+CombinedCSV, "text/csv", data)
}

// ReadCombinedCSV returns all records of the partition summary, header first.
func (s *Store) ReadCombinedCSV(ctx context.Context, partition string) ([][]string, error) {
	data, err := s.store.Download(ctx, partition+"/"+CombinedCSV)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download %s/%s: %w", partition, CombinedCSV, err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		telemetry.Error("leadstore.decode_failed", map[string]any{
			"artifact": partition + "/" + CombinedCSV,
			"error":    err.Error(),
		})
		return nil, ErrNotFound
	}
	return records, nil
}

func (s *Store) upload(ctx context.Context, key, contentType string, data []byte) error {
	if err := s.store.Upload(ctx, key, contentType, data, true); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *Store) key(ref Ref, artifact string) string {
	return ref.Partition + "/" + ref.Name + "/" + artifact
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func statusArtifact(artifact string) string {
	return strings.TrimSuffix(artifact, ".json") + ".status.json"
}
