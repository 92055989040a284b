package persona

import (
	"fmt"
	"strings"

	"bdengine-backend/internal/leads"
)

// Prompt-embedding caps. These bound prompt size and cost, not correctness.
const (
	maxSkills       = 10
	maxTags         = 10
	maxOrgKeywords  = 15
	maxPostSnippets = 5
)

// BuildPrompt assembles the single-turn persona synthesis prompt from a
// lead's attributes and recent public posts.
func BuildPrompt(lead leads.Lead, posts []string) string {
	emp := lead.CurrentEmployment()
	org := lead.Organization

	postSnippets := "No public posts available."
	if len(posts) > 0 {
		postSnippets = strings.Join(capList(posts, maxPostSnippets), "\n")
	}

	var b strings.Builder
	b.WriteString("You are an advanced persona modeling system for B2B outreach.\n\n")
	b.WriteString("Given the full professional and public-facing information of a lead, construct a complete behavioral persona that can be used to simulate realistic conversations and generate personalized communication.\n\n")

	b.WriteString("--- Personal Info ---\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.FullName())
	fmt.Fprintf(&b, "Title: %s\n", emp.Title)
	fmt.Fprintf(&b, "Seniority: %s\n", lead.Seniority)
	fmt.Fprintf(&b, "Department: %s\n", strings.Join(lead.Departments, ", "))
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(capList(lead.Skills, maxSkills), ", "))
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(capList(lead.Tags, maxTags), ", "))
	fmt.Fprintf(&b, "Bio: %s\n", lead.BioOrSummary())
	fmt.Fprintf(&b, "Location: %s, %s, %s\n", lead.City, lead.State, lead.Country)
	fmt.Fprintf(&b, "LinkedIn: %s\n\n", lead.LinkedInURL)

	b.WriteString("--- Company Info ---\n")
	fmt.Fprintf(&b, "Company: %s\n", emp.OrganizationName)
	fmt.Fprintf(&b, "Industry: %s\n", org.Industry)
	fmt.Fprintf(&b, "Company Size: %d employees\n", org.EstimatedNumEmployees)
	fmt.Fprintf(&b, "Company Keywords: %s\n\n", strings.Join(capList(org.Keywords, maxOrgKeywords), ", "))

	b.WriteString("--- Writing Samples from LinkedIn Posts ---\n")
	b.WriteString(postSnippets)
	b.WriteString("\n\n")

	b.WriteString("--- Output Format (respond ONLY with this JSON object) ---\n")
	b.WriteString(`{
  "persona_type": "e.g. visionary, detail-oriented, process-driven",
  "communication_style": "e.g. concise, storytelling, data-heavy, casual",
  "tone_profile": "e.g. assertive, humble, upbeat, skeptical",
  "writing_style": "e.g. short bullet points, long paragraphs, formal",
  "key_interests": ["..."],
  "decision_drivers": ["..."],
  "objection_style": "e.g. asks tough ROI questions, cautious about cost",
  "example_phrases": ["..."],
  "summary": "..."
}`)
	return b.String()
}

func capList(values []string, max int) []string {
	if len(values) <= max {
		return values
	}
	return values[:max]
}
