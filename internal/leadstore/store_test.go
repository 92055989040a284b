package leadstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"bdengine-backend/internal/shared/storage/object/local"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(local.New(t.TempDir()))
}

func TestReadJSONMissingArtifact(t *testing.T) {
	store := newTestStore(t)
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	var v map[string]any
	if err := store.ReadJSON(context.Background(), ref, ArtifactLead, &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	in := map[string]string{"first_name": "Jane"}
	if err := store.WriteJSON(context.Background(), ref, ArtifactLead, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out map[string]string
	if err := store.ReadJSON(context.Background(), ref, ArtifactLead, &out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out["first_name"] != "Jane" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestReadJSONUndecodableReadsAsAbsent(t *testing.T) {
	store := newTestStore(t)
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	if err := store.WriteText(context.Background(), ref, ArtifactPersona, "not json"); err != nil {
		t.Fatalf("write: %v", err)
	}
	var v map[string]any
	if err := store.ReadJSON(context.Background(), ref, ArtifactPersona, &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for undecodable artifact, got %v", err)
	}
}

func TestListPartitionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, ref := range []Ref{
		{Partition: "2026-08-28", Name: "A"},
		{Partition: "2026-08-30", Name: "B"},
		{Partition: "2026-08-29", Name: "C"},
	} {
		if err := store.WriteJSON(ctx, ref, ArtifactLead, map[string]string{"x": "y"}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	partitions, err := store.ListPartitions(ctx)
	if err != nil {
		t.Fatalf("list partitions: %v", err)
	}
	want := []string{"2026-08-30", "2026-08-29", "2026-08-28"}
	if !reflect.DeepEqual(partitions, want) {
		t.Fatalf("partitions = %v, want %v", partitions, want)
	}
}

func TestListLeadsSkipsFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteJSON(ctx, Ref{Partition: "2026-08-30", Name: "Bob"}, ArtifactLead, map[string]string{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.WriteJSON(ctx, Ref{Partition: "2026-08-30", Name: "Alice"}, ArtifactLead, map[string]string{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.WriteCombinedCSV(ctx, "2026-08-30", []string{"h"}, [][]string{{"v"}}); err != nil {
		t.Fatalf("write combined: %v", err)
	}

	names, err := store.ListLeads(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	want := []string{"Alice", "Bob"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("leads = %v, want %v", names, want)
	}
}

func TestCombinedCSVRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	header := []string{"Full Name", "Title"}
	rows := [][]string{{"Jane Doe", "VP"}, {"Bob Roe", "CMO"}}
	if err := store.WriteCombinedCSV(ctx, "2026-08-30", header, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := store.ReadCombinedCSV(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if !reflect.DeepEqual(records[0], header) {
		t.Fatalf("header = %v", records[0])
	}
	if !reflect.DeepEqual(records[2], rows[1]) {
		t.Fatalf("row = %v", records[2])
	}
}

func TestClaimArtifactLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	state, err := store.ArtifactState(ctx, ref, ArtifactPersona)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != StateAbsent {
		t.Fatalf("initial state = %s", state)
	}

	if err := store.ClaimArtifact(ctx, ref, ArtifactPersona); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := store.ClaimArtifact(ctx, ref, ArtifactPersona); !errors.Is(err, ErrGenerating) {
		t.Fatalf("second claim = %v, want ErrGenerating", err)
	}

	if err := store.ResolveArtifact(ctx, ref, ArtifactPersona, StateReady); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := store.ClaimArtifact(ctx, ref, ArtifactPersona); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("claim after ready = %v, want ErrAlreadyExists", err)
	}
}

func TestClaimArtifactRetriesAfterFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	if err := store.ClaimArtifact(ctx, ref, ArtifactEmailStatus); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := store.ResolveArtifact(ctx, ref, ArtifactEmailStatus, StateFailed); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := store.ClaimArtifact(ctx, ref, ArtifactEmailStatus); err != nil {
		t.Fatalf("re-claim after failure: %v", err)
	}
}

func TestArtifactStateBackfillsReady(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ref := Ref{Partition: "2026-08-30", Name: "Jane Doe"}

	// Artifact written by an older run, without a status record.
	if err := store.WriteJSON(ctx, ref, ArtifactPersona, map[string]string{"persona_type": "x"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	state, err := store.ArtifactState(ctx, ref, ArtifactPersona)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state != StateReady {
		t.Fatalf("state = %s, want ready", state)
	}
	if err := store.ClaimArtifact(ctx, ref, ArtifactPersona); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("claim = %v, want ErrAlreadyExists", err)
	}
}
