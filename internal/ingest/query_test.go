package ingest

import (
	"strings"
	"testing"
)

func TestBuildSearchURL(t *testing.T) {
	got := BuildSearchURL(
		[]string{"Mumbai, India", " "},
		[]string{"consumer goods"},
		[]string{"VP Marketing", "CMO"},
	)

	if !strings.HasPrefix(got, "https://app.apollo.io/#/people?") {
		t.Fatalf("unexpected base: %q", got)
	}
	for _, want := range []string{
		"personLocations[]=Mumbai%2C%20India",
		"qOrganizationKeywordTags[]=consumer%20goods",
		"personTitles[]=VP%20Marketing",
		"personTitles[]=CMO",
		"sortByField=recommendations_score",
		"sortAscending=false",
		"page=1",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("url %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "personLocations[]=&") || strings.HasSuffix(got, "personLocations[]=") {
		t.Fatalf("blank values must be skipped: %q", got)
	}
	if strings.Contains(got, "+") {
		t.Fatalf("spaces must encode as %%20: %q", got)
	}
}

func TestBuildSearchURLOrdering(t *testing.T) {
	got := BuildSearchURL([]string{"Delhi"}, []string{"fashion"}, []string{"Founder"})
	locIdx := strings.Index(got, "personLocations")
	bizIdx := strings.Index(got, "qOrganizationKeywordTags")
	titleIdx := strings.Index(got, "personTitles")
	if !(locIdx < bizIdx && bizIdx < titleIdx) {
		t.Fatalf("parameter groups out of order: %q", got)
	}
}
