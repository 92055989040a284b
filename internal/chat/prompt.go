package chat

import (
	"encoding/json"
	"strings"

	"bdengine-backend/internal/persona"
)

// BuildSystemPrompt produces the in-character instruction that anchors a
// simulated conversation with a lead.
func BuildSystemPrompt(name string, p persona.Persona) string {
	snapshot, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		snapshot = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are now simulating " + name + ", a real-world professional based on detailed persona insights below.\n\n")
	b.WriteString("Only respond in the tone, style, and mindset of this person. Use their vocabulary, preferred sentence structure, and emotional tone.\n\n")
	b.WriteString("--- Persona Snapshot ---\n")
	b.Write(snapshot)
	b.WriteString("\n\n--- Behavior Guidelines ---\n")
	b.WriteString("- Be authentic to this person's communication style (e.g., concise, assertive, formal, friendly).\n")
	b.WriteString("- Reflect their interests and priorities when responding (e.g., ROI, efficiency, market trends).\n")
	b.WriteString("- If a question is irrelevant or off-topic, politely redirect or decline.\n")
	b.WriteString("- Keep your responses natural, as if you're typing on LinkedIn or replying to a thoughtful DM.\n\n")
	b.WriteString("Your job is to answer as if you are this person, staying completely in character.\n")
	return b.String()
}
