package ingest

import (
	"net/url"
	"strings"
)

const searchBaseURL = "https://app.apollo.io/#/people"

// Fixed scrape parameters per run: one page, capped record count, both email
// kinds requested. The cap is a cost control, not a correctness one.
const (
	totalRecordsCap = 500
)

// BuildSearchURL composes the people-search deep link the scraper consumes.
// It is also returned to callers for human review.
func BuildSearchURL(locations, businesses, jobTitles []string) string {
	var parts []string
	appendParams(&parts, "personLocations", locations)
	appendParams(&parts, "qOrganizationKeywordTags", businesses)
	appendParams(&parts, "personTitles", jobTitles)
	parts = append(parts,
		"sortByField=recommendations_score",
		"sortAscending=false",
		"page=1",
	)
	return searchBaseURL + "?" + strings.Join(parts, "&")
}

func appendParams(parts *[]string, name string, values []string) {
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		*parts = append(*parts, name+"[]="+escapeQuery(trimmed))
	}
}

// escapeQuery percent-encodes a value, keeping spaces as %20 so the deep
// link stays readable in the scraper payload.
func escapeQuery(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
