package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the requested case study does not exist.
	ErrNotFound = errors.New("case study not found")
	// ErrAlreadyExists indicates a case study with the same deck name exists.
	ErrAlreadyExists = errors.New("case study already exists")
	// ErrReadOnly indicates the backing repo does not accept writes.
	ErrReadOnly = errors.New("catalog repo is read-only")
)

// Repo is the case-study catalog storage contract.
type Repo interface {
	List(ctx context.Context) ([]CaseStudy, error)
	// FindByName matches a deck name ignoring case and surrounding whitespace.
	FindByName(ctx context.Context, name string) (CaseStudy, error)
	Create(ctx context.Context, cs CaseStudy) error
}
