package leadstore

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ArtifactState enumerates the lifecycle of a derived artifact. The state
// record lives next to the artifact (e.g. persona.status.json) so artifact
// presence is no longer the only state signal.
type ArtifactState string

const (
	StateAbsent     ArtifactState = "absent"
	StateGenerating ArtifactState = "generating"
	StateReady      ArtifactState = "ready"
	StateFailed     ArtifactState = "failed"
)

type statusRecord struct {
	State     ArtifactState `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ArtifactState reads the persisted state for an artifact. An existing
// artifact without a status record reads as ready (records created by older
// runs are backfilled on read).
func (s *Store) ArtifactState(ctx context.Context, ref Ref, artifact string) (ArtifactState, error) {
	var rec statusRecord
	err := s.ReadJSON(ctx, ref, statusArtifact(artifact), &rec)
	if err == nil && rec.State != "" {
		return rec.State, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return StateAbsent, err
	}

	exists, err := s.HasArtifact(ctx, ref, artifact)
	if err != nil {
		return StateAbsent, err
	}
	if exists {
		return StateReady, nil
	}
	return StateAbsent, nil
}

// ClaimArtifact transitions an artifact to generating. It fails with
// ErrAlreadyExists when the artifact is ready and ErrGenerating while a claim
// is held. The check-and-set is guarded by an in-process per-key lock; the
// persisted record makes the claim visible to other instances, which still
// race last-writer-wins across processes.
func (s *Store) ClaimArtifact(ctx context.Context, ref Ref, artifact string) error {
	unlock := s.locks.lock(s.key(ref, artifact))
	defer unlock()

	state, err := s.ArtifactState(ctx, ref, artifact)
	if err != nil {
		return err
	}
	switch state {
	case StateReady:
		return ErrAlreadyExists
	case StateGenerating:
		return ErrGenerating
	}

	return s.WriteJSON(ctx, ref, statusArtifact(artifact), statusRecord{
		State:     StateGenerating,
		UpdatedAt: time.Now().UTC(),
	})
}

// ResolveArtifact finalizes a claim as ready or failed.
func (s *Store) ResolveArtifact(ctx context.Context, ref Ref, artifact string, state ArtifactState) error {
	if state != StateReady && state != StateFailed {
		return errors.New("resolve state must be ready or failed")
	}
	unlock := s.locks.lock(s.key(ref, artifact))
	defer unlock()

	return s.WriteJSON(ctx, ref, statusArtifact(artifact), statusRecord{
		State:     state,
		UpdatedAt: time.Now().UTC(),
	})
}

type keyLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
