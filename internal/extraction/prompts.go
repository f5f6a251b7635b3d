package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridianworks/meridian/internal/inference"
)

const systemPrompt = `You are a structured data extraction service for a
commercial real estate research team. You respond with a single JSON
object and nothing else: no prose, no markdown fences.`

const batchSystemPrompt = `You are a structured data extraction service for a
commercial real estate research team. You respond with a single JSON
array and nothing else: no prose, no markdown fences.`

func passOneMessages(s Schema, source string) []inference.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Extract the following fields from the document below.\n\n")
	b.WriteString(s.Guidance)
	b.WriteString("\n\nFields: ")
	b.WriteString(strings.Join(s.Fields, ", "))
	b.WriteString(`

Rules:
- Only report values that appear LITERALLY in the document text.
- Do not guess, derive, or fill in values from general knowledge.
- Respond with a JSON object mapping every field name to either null or
  {"value": <value>, "confidence": <0..1>}.
- Confidence reflects how clearly the document states the value.

Document:
---
`)
	b.WriteString(source)
	b.WriteString("\n---")

	return []inference.Message{
		{Role: inference.RoleSystem, Content: systemPrompt},
		{Role: inference.RoleUser, Content: b.String()},
	}
}

func passTwoMessages(s Schema, source string, explicit Pass) []inference.Message {
	prior, _ := json.Marshal(explicit)

	var b strings.Builder
	fmt.Fprintf(&b, "A first extraction pass over the document below produced:\n\n%s\n\n", prior)
	b.WriteString(s.Guidance)
	b.WriteString(`

For fields the first pass left null, propose values that are reasonably
INFERABLE from context — for example annual rent derived from rate and
area, or a term computed from start and end dates. Tag each with a
confidence between 0.3 and 0.7. Leave a field null when nothing can be
inferred. Respond with a JSON object in the same shape as the first pass.

Document:
---
`)
	b.WriteString(source)
	b.WriteString("\n---")

	return []inference.Message{
		{Role: inference.RoleSystem, Content: systemPrompt},
		{Role: inference.RoleUser, Content: b.String()},
	}
}

func batchMessages(s Schema, source string) []inference.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "The document below may list SEVERAL distinct spaces. Extract one entry per space.\n\n")
	b.WriteString(s.Guidance)
	b.WriteString("\n\nFields per entry: ")
	b.WriteString(strings.Join(s.Fields, ", "))
	b.WriteString(`

Rules:
- Only report values that appear LITERALLY in the document text.
- Respond with a JSON array; each element maps every field name to
  either null or {"value": <value>, "confidence": <0..1>}.
- Emit one element per distinct space, in document order.

Document:
---
`)
	b.WriteString(source)
	b.WriteString("\n---")

	return []inference.Message{
		{Role: inference.RoleSystem, Content: batchSystemPrompt},
		{Role: inference.RoleUser, Content: b.String()},
	}
}
