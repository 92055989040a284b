package catalog

import "strings"

// CaseStudy is one deck in the case-study catalog. Summary and tags are
// short free text used when matching a deck to a prospect.
type CaseStudy struct {
	ID          string `json:"id,omitempty"`
	DeckName    string `json:"deck_name"`
	DeckURL     string `json:"deck_url"`
	DeckSummary string `json:"deck_summary"`
	Tags        string `json:"tags"`
}

// NormalizeName folds a deck name for lookup: lowercase, surrounding
// whitespace removed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
