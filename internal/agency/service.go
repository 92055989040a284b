package agency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bdengine-backend/internal/llm"
	"bdengine-backend/internal/shared/storage/object"
	"bdengine-backend/internal/shared/telemetry"
)

const (
	profileKey         = "agency/profile.txt"
	fetchTimeout       = 30 * time.Second
	maxPageBytes       = 2 << 20
	maxProfileSource   = 24000
	summaryTemperature = 0.5
)

var (
	ErrNotFound      = errors.New("agency profile not found")
	ErrNoContent     = errors.New("no page content retrieved")
	ErrSummaryFailed = errors.New("agency summary failed")
)

// Service scrapes the agency's site and maintains a 5-point profile used
// to position outreach emails.
type Service struct {
	Store      object.ObjectStore
	HTTPClient *http.Client
	LLM        llm.Client
	Model      string
	AgencyName string
	SiteURLs   []string
}

// Profile reads the persisted agency profile.
func (s *Service) Profile(ctx context.Context) (string, error) {
	raw, err := s.Store.Download(ctx, profileKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(raw), nil
}

// Refresh scrapes the configured site pages, summarizes them, and persists
// the resulting profile. Pages that fail to load are skipped; the refresh
// aborts only when nothing loads at all.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	if len(s.SiteURLs) == 0 {
		return "", fmt.Errorf("%w: no site urls configured", ErrNoContent)
	}

	var sections []string
	for _, url := range s.SiteURLs {
		text, err := s.fetchPage(ctx, url)
		if err != nil {
			telemetry.Info("agency.page_unavailable", map[string]any{
				"url":   url,
				"error": err.Error(),
			})
			continue
		}
		if text != "" {
			sections = append(sections, text)
		}
	}
	if len(sections) == 0 {
		return "", ErrNoContent
	}

	source := strings.Join(sections, "\n\n")
	if len(source) > maxProfileSource {
		source = source[:maxProfileSource]
	}

	summary, err := s.summarize(ctx, source)
	if err != nil {
		return "", err
	}

	if err := s.Store.Upload(ctx, profileKey, "text/plain; charset=utf-8", []byte(summary), true); err != nil {
		return "", err
	}
	return summary, nil
}

func (s *Service) fetchPage(ctx context.Context, url string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return ExtractText(string(body)), nil
}

func (s *Service) summarize(ctx context.Context, source string) (string, error) {
	var b strings.Builder
	b.WriteString("You are an expert B2B strategist working on behalf of a digital marketing agency called " + s.AgencyName + ".\n\n")
	b.WriteString("You are given content scraped from their official website.\n\n")
	b.WriteString("Write a 5-point professional summary of the agency's marketing strengths, to be used for cold emails, deck matching, and competitive positioning. Cover:\n")
	b.WriteString("1. What marketing services the agency offers.\n")
	b.WriteString("2. What kinds of brands or industries they serve.\n")
	b.WriteString("3. Unique value propositions or tone.\n")
	b.WriteString("4. Specific brand names, clients, or case studies mentioned.\n")
	b.WriteString("5. Their approach to marketing.\n\n")
	b.WriteString("Be concise and factual. Bullet points only. Skip general fluff.\n\n")
	b.WriteString("--- Website Content ---\n")
	b.WriteString(source)

	summary, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: b.String()},
		},
		Temperature: summaryTemperature,
	})
	if err != nil {
		return "", errors.Join(ErrSummaryFailed, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", ErrSummaryFailed)
	}
	return summary, nil
}
