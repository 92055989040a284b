package outreach

import (
	"encoding/json"
	"strings"

	"bdengine-backend/internal/catalog"
	"bdengine-backend/internal/leads"
	"bdengine-backend/internal/persona"
)

// BuildPrompt assembles the cold-email prompt: the prospect, their
// synthesized persona, the agency pitch, and the full deck catalog the
// model must choose from.
func BuildPrompt(lead leads.Lead, p persona.Persona, agencyName string, agencyProfile string, decks []catalog.CaseStudy) string {
	employment := lead.CurrentEmployment()

	var b strings.Builder
	b.WriteString("You are a senior business development strategist at " + agencyName + ", a marketing agency.\n")
	b.WriteString("Write a personalized cold outreach email to the prospect below, and pick the single most relevant case-study deck from the catalog to reference.\n\n")

	b.WriteString("## Prospect\n")
	writeField(&b, "Name", lead.FullName())
	writeField(&b, "Title", employment.Title)
	writeField(&b, "Company", employment.OrganizationName)
	writeField(&b, "Industry", lead.Industry)
	writeField(&b, "Seniority", lead.Seniority)
	writeField(&b, "Location", strings.TrimSpace(strings.Join(nonEmpty(lead.City, lead.State, lead.Country), ", ")))
	b.WriteString("\n")

	b.WriteString("## Prospect Persona\n")
	writeField(&b, "Persona Type", p.PersonaType)
	writeField(&b, "Communication Style", p.CommunicationStyle)
	writeField(&b, "Tone Profile", p.ToneProfile)
	writeField(&b, "Key Interests", strings.Join(p.KeyInterests, ", "))
	writeField(&b, "Decision Drivers", strings.Join(p.DecisionDrivers, ", "))
	writeField(&b, "Objection Style", p.ObjectionStyle)
	writeField(&b, "Summary", p.Summary)
	b.WriteString("\n")

	if agencyProfile != "" {
		b.WriteString("## About " + agencyName + "\n")
		b.WriteString(agencyProfile + "\n\n")
	}

	b.WriteString("## Case Study Catalog\n")
	b.WriteString(serializeCatalog(decks) + "\n\n")

	b.WriteString("## Instructions\n")
	b.WriteString("- Match the email tone to the persona's communication style.\n")
	b.WriteString("- Reference exactly one deck from the catalog, by its deck_name, and connect it to the prospect's company or interests.\n")
	b.WriteString("- Keep the email body under 150 words.\n")
	b.WriteString("- End with a low-friction call to action.\n")
	b.WriteString("- Do not invent case studies that are not in the catalog.\n\n")

	b.WriteString("Return a JSON object with exactly these keys:\n")
	b.WriteString(`{"deck_chosen": "deck_name from the catalog", "subject": "email subject line", "body": "email body"}`)
	return b.String()
}

func serializeCatalog(decks []catalog.CaseStudy) string {
	type deckEntry struct {
		DeckName    string `json:"deck_name"`
		DeckSummary string `json:"deck_summary"`
		Tags        string `json:"tags,omitempty"`
	}
	entries := make([]deckEntry, 0, len(decks))
	for _, d := range decks {
		entries = append(entries, deckEntry{DeckName: d.DeckName, DeckSummary: d.DeckSummary, Tags: d.Tags})
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func writeField(b *strings.Builder, label string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString("- " + label + ": " + value + "\n")
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
