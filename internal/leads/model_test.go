package leads

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestCurrentEmploymentPicksFirstCurrent(t *testing.T) {
	lead := Lead{
		EmploymentHistory: []Employment{
			{Current: false, OrganizationName: "Old Co", Title: "Intern"},
			{Current: true, OrganizationName: "Acme", Title: "VP Marketing"},
			{Current: true, OrganizationName: "Side Gig", Title: "Advisor"},
		},
	}
	emp := lead.CurrentEmployment()
	if emp.OrganizationName != "Acme" || emp.Title != "VP Marketing" {
		t.Fatalf("unexpected employment: %+v", emp)
	}
}

func TestCurrentEmploymentDefaultsEmpty(t *testing.T) {
	lead := Lead{
		EmploymentHistory: []Employment{
			{Current: false, OrganizationName: "Old Co", Title: "Intern"},
		},
	}
	emp := lead.CurrentEmployment()
	if emp.OrganizationName != "" || emp.Title != "" {
		t.Fatalf("expected empty employment, got %+v", emp)
	}

	row := lead.Row("old-lead")
	if row[1] != "" || row[2] != "" {
		t.Fatalf("employment columns should be empty, got %q %q", row[1], row[2])
	}
}

func TestRowMatchesHeader(t *testing.T) {
	lead := Lead{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@acme.com",
		LinkedInURL: "https://linkedin.com/in/janedoe",
		City:        "Mumbai",
		State:       "MH",
		Country:     "India",
		Seniority:   "vp",
		Departments: []string{"marketing", "growth"},
		Industry:    "consumer goods",
		Skills:      []string{"branding", "media"},
		Tags:        []string{"d2c"},
		EmploymentHistory: []Employment{
			{Current: true, OrganizationName: "Acme", Title: "VP Marketing"},
		},
		PhoneNumbers: []PhoneNumber{{Number: "+91 12345"}},
	}

	row := lead.Row("Jane Doe")
	if len(row) != len(RowHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(RowHeader))
	}
	if row[0] != "Jane Doe" {
		t.Fatalf("name column = %q", row[0])
	}
	if row[9] != "marketing, growth" {
		t.Fatalf("departments column = %q", row[9])
	}
	if row[13] != "+91 12345" {
		t.Fatalf("phones column = %q", row[13])
	}
}

func TestLeadJSONRoundTrip(t *testing.T) {
	original := Lead{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@acme.com",
		LinkedInURL: "https://linkedin.com/in/janedoe",
		Seniority:   "vp",
		Skills:      []string{"branding"},
		EmploymentHistory: []Employment{
			{Current: true, OrganizationName: "Acme", Title: "VP Marketing"},
		},
		Organization: Organization{Industry: "consumer goods", EstimatedNumEmployees: 1200, Keywords: []string{"d2c"}},
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Lead
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", original, decoded)
	}
}

func TestSafeFullName(t *testing.T) {
	lead := Lead{FirstName: "Jane", LastName: "Doe/Smith"}
	name, err := lead.SafeFullName()
	if err != nil {
		t.Fatalf("safe name: %v", err)
	}
	if name != "Jane Doe-Smith" {
		t.Fatalf("safe name = %q", name)
	}
}
