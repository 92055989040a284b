package leads

import (
	"strings"

	"bdengine-backend/internal/shared/util"
)

// Lead is one scraped contact as returned by the people-search API. The raw
// record is persisted verbatim as lead.json; this struct maps the fields the
// pipeline reads.
type Lead struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photo_url"`
	LinkedInURL string `json:"linkedin_url"`

	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`

	Seniority   string   `json:"seniority"`
	Departments []string `json:"departments"`
	Industry    string   `json:"industry"`
	Skills      []string `json:"skills"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	Bio         string   `json:"bio"`

	EmploymentHistory []Employment  `json:"employment_history"`
	Organization      Organization  `json:"organization"`
	PhoneNumbers      []PhoneNumber `json:"phone_numbers"`
}

// Employment is one entry of a lead's employment history.
type Employment struct {
	Current          bool   `json:"current"`
	OrganizationName string `json:"organization_name"`
	Title            string `json:"title"`
}

// Organization carries firmographic attributes of the lead's company.
type Organization struct {
	Industry              string   `json:"industry"`
	EstimatedNumEmployees int      `json:"estimated_num_employees"`
	Keywords              []string `json:"keywords"`
}

// PhoneNumber is one phone record attached to a lead.
type PhoneNumber struct {
	Number string `json:"number"`
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}

// SafeFullName returns the full name made safe for use as a storage folder.
func (l Lead) SafeFullName() (string, error) {
	return util.SanitizeLeadName(l.FullName())
}

// CurrentEmployment returns the first employment entry flagged current. Leads
// without one get the zero value, so derived fields read as empty strings.
func (l Lead) CurrentEmployment() Employment {
	for _, e := range l.EmploymentHistory {
		if e.Current {
			return e
		}
	}
	return Employment{}
}

// BioOrSummary prefers the summary field, falling back to bio.
func (l Lead) BioOrSummary() string {
	if strings.TrimSpace(l.Summary) != "" {
		return l.Summary
	}
	return l.Bio
}

// RowHeader is the column order of per-lead and combined CSV summaries.
var RowHeader = []string{
	"Full Name", "Title", "Company", "Email", "LinkedIn",
	"City", "State", "Country", "Seniority", "Department",
	"Industry", "Skills", "Tags", "Phone Numbers",
}

// Row flattens the lead into a CSV row matching RowHeader. List fields are
// comma-joined display strings.
func (l Lead) Row(safeName string) []string {
	emp := l.CurrentEmployment()
	phones := make([]string, 0, len(l.PhoneNumbers))
	for _, p := range l.PhoneNumbers {
		phones = append(phones, p.Number)
	}
	return []string{
		safeName,
		emp.Title,
		emp.OrganizationName,
		l.Email,
		l.LinkedInURL,
		l.City,
		l.State,
		l.Country,
		l.Seniority,
		strings.Join(l.Departments, ", "),
		l.Industry,
		strings.Join(l.Skills, ", "),
		strings.Join(l.Tags, ", "),
		strings.Join(phones, ", "),
	}
}
