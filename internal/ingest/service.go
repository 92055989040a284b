package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/leadstore"
	"bdengine-backend/internal/shared/metrics"
	"bdengine-backend/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

// Scraper runs one bulk lead fetch against the people-search API.
type Scraper interface {
	FetchLeads(ctx context.Context, searchURL string, totalRecords int) ([]json.RawMessage, error)
}

// Service ingests scraped lead batches into the lead store.
type Service struct {
	Store   *leadstore.Store
	Scraper Scraper
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Request carries the free-text search lists for one ingestion run.
type Request struct {
	Locations  []string
	Businesses []string
	JobTitles  []string
}

// Result summarizes one completed ingestion run.
type Result struct {
	RunID     string
	Partition string
	SearchURL string
	Leads     []string
	Count     int
}

// Run performs one scrape and persists every returned lead under today's
// partition. A failed fetch aborts the run with nothing persisted; there is
// no partial-success handling for the remote call.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Locations) == 0 && len(req.Businesses) == 0 && len(req.JobTitles) == 0 {
		return Result{}, ErrInvalidInput
	}

	metrics.IncIngestRun()
	searchURL := BuildSearchURL(req.Locations, req.Businesses, req.JobTitles)

	records, err := s.Scraper.FetchLeads(ctx, searchURL, totalRecordsCap)
	if err != nil {
		metrics.IncIngestRunFailed()
		return Result{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	partition := now().UTC().Format("2006-01-02")

	result := Result{
		RunID:     uuid.NewString(),
		Partition: partition,
		SearchURL: searchURL,
	}

	var rows [][]string
	for _, raw := range records {
		var lead leads.Lead
		if err := json.Unmarshal(raw, &lead); err != nil {
			telemetry.Error("ingest.lead_decode_failed", map[string]any{
				"run_id": result.RunID,
				"error":  err.Error(),
			})
			continue
		}
		safeName, err := lead.SafeFullName()
		if err != nil {
			telemetry.Error("ingest.lead_name_invalid", map[string]any{
				"run_id": result.RunID,
				"error":  err.Error(),
			})
			continue
		}

		ref := leadstore.Ref{Partition: partition, Name: safeName}
		if err := s.Store.WriteRawJSON(ctx, ref, leadstore.ArtifactLead, raw); err != nil {
			return Result{}, err
		}

		row := lead.Row(safeName)
		if err := s.Store.WriteLeadCSV(ctx, ref, leads.RowHeader, row); err != nil {
			return Result{}, err
		}

		rows = append(rows, row)
		result.Leads = append(result.Leads, safeName)
	}

	if err := s.Store.WriteCombinedCSV(ctx, partition, leads.RowHeader, rows); err != nil {
		return Result{}, err
	}

	result.Count = len(result.Leads)
	metrics.AddLeadsIngested(result.Count)
	telemetry.Info("ingest.complete", map[string]any{
		"run_id":    result.RunID,
		"partition": partition,
		"count":     result.Count,
	})
	return result, nil
}
