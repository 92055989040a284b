package outreach

import (
	"encoding/json"
	"errors"
	"strings"
)

// Draft is the structured reply expected from the model.
type Draft struct {
	DeckChosen string `json:"deck_chosen"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// ParseReply decodes a model reply into a Draft. JSON is the contract;
// labeled plain text ("Deck Chosen:", "Subject:", "Body:") is accepted as
// a fallback when the model ignores it.
func ParseReply(raw string) (Draft, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Draft{}, errors.New("empty llm response")
	}

	if draft, ok := parseJSONDraft(trimmed); ok {
		return draft, nil
	}
	if draft, ok := parseLabeledDraft(trimmed); ok {
		return draft, nil
	}
	return Draft{}, errors.New("unparseable email reply")
}

func parseJSONDraft(raw string) (Draft, bool) {
	payload := raw
	if !json.Valid([]byte(payload)) {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end <= start {
			return Draft{}, false
		}
		payload = raw[start : end+1]
	}
	var draft Draft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return Draft{}, false
	}
	draft.DeckChosen = strings.TrimSpace(draft.DeckChosen)
	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Body = strings.TrimSpace(draft.Body)
	if draft.Body == "" {
		return Draft{}, false
	}
	return draft, true
}

func parseLabeledDraft(raw string) (Draft, bool) {
	var draft Draft
	lines := strings.Split(raw, "\n")
	bodyStart := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(lower, "deck chosen:"):
			draft.DeckChosen = labelValue(line)
		case strings.HasPrefix(lower, "subject:"):
			draft.Subject = labelValue(line)
		case strings.HasPrefix(lower, "body:"):
			draft.Body = labelValue(line)
			bodyStart = i
		}
	}
	if bodyStart >= 0 && bodyStart+1 < len(lines) {
		rest := strings.TrimSpace(strings.Join(lines[bodyStart+1:], "\n"))
		if rest != "" {
			if draft.Body != "" {
				draft.Body += "\n"
			}
			draft.Body += rest
		}
	}
	if draft.Body == "" {
		return Draft{}, false
	}
	return draft, true
}

func labelValue(line string) string {
	_, after, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(after)
}
