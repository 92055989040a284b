package persona

import (
	"encoding/json"
	"errors"
	"strings"
)

// Persona is the LLM-synthesized behavioral profile of a lead. All fields
// are free text; the only schema validation is the JSON parse itself.
type Persona struct {
	PersonaType        string   `json:"persona_type"`
	CommunicationStyle string   `json:"communication_style"`
	ToneProfile        string   `json:"tone_profile"`
	WritingStyle       string   `json:"writing_style"`
	KeyInterests       []string `json:"key_interests"`
	DecisionDrivers    []string `json:"decision_drivers"`
	ObjectionStyle     string   `json:"objection_style"`
	ExamplePhrases     []string `json:"example_phrases"`
	Summary            string   `json:"summary"`
}

// Parse decodes a model reply into a Persona. Replies wrapped in prose are
// salvaged by extracting the outermost JSON object.
func Parse(raw string) (Persona, error) {
	payload, err := extractJSONObject(raw)
	if err != nil {
		return Persona{}, err
	}
	var p Persona
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return Persona{}, err
	}
	return p, nil
}

func extractJSONObject(raw string) (string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return "", errors.New("empty llm response")
	}
	if json.Valid([]byte(payload)) {
		return payload, nil
	}

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no json object found")
	}

	candidate := payload[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errors.New("invalid json object")
	}
	return candidate, nil
}
