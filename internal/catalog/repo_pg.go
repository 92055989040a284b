package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) List(ctx context.Context) ([]CaseStudy, error) {
	const query = `
SELECT id, deck_name, deck_url, deck_summary, tags
FROM case_studies
ORDER BY deck_name ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CaseStudy
	for rows.Next() {
		cs, err := scanCaseStudy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *PGRepo) FindByName(ctx context.Context, name string) (CaseStudy, error) {
	const query = `
SELECT id, deck_name, deck_url, deck_summary, tags
FROM case_studies
WHERE lower(trim(deck_name)) = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, NormalizeName(name))
	cs, err := scanCaseStudy(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CaseStudy{}, ErrNotFound
		}
		return CaseStudy{}, err
	}
	return cs, nil
}

func (r *PGRepo) Create(ctx context.Context, cs CaseStudy) error {
	const query = `
INSERT INTO case_studies (id, deck_name, deck_url, deck_summary, tags, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT DO NOTHING`
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	res, err := r.DB.ExecContext(ctx, query, cs.ID, cs.DeckName, cs.DeckURL, cs.DeckSummary, cs.Tags, time.Now().UTC())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaseStudy(row rowScanner) (CaseStudy, error) {
	var cs CaseStudy
	var deckURL, deckSummary, tags sql.NullString
	if err := row.Scan(&cs.ID, &cs.DeckName, &deckURL, &deckSummary, &tags); err != nil {
		return CaseStudy{}, err
	}
	if deckURL.Valid {
		cs.DeckURL = deckURL.String
	}
	if deckSummary.Valid {
		cs.DeckSummary = deckSummary.String
	}
	if tags.Valid {
		cs.Tags = tags.String
	}
	return cs, nil
}
