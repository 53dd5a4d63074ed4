package ai

import (
	"fmt"
	"strings"
)

const analysisPrompt = `Analyze the structure of the following manuscript excerpt. Return a JSON object with these fields:

- "table_of_contents": array of heading entries found in the excerpt. Each entry:
  - "title": heading text (string)
  - "level": 1-6 (integer; 1 = part/volume, 2 = chapter, 3 = section)
  - "position": 1-based line number of the heading WITHIN THIS EXCERPT (integer)
- "image_points": array of locations where an illustrative image would help the reader. Each point:
  - "position": {"section": nearest heading title or "", "after_paragraph": paragraph index within the section, "line_number": 1-based line WITHIN THIS EXCERPT}
  - "suggested_type": one of "scene", "portrait", "diagram", "map", "decoration"
  - "context": the sentence or two the image should illustrate (string, max 200 chars)
  - "generated_prompt": a concrete text-to-image prompt for the illustration (string, max 300 chars)
- "content_type": one of "novel", "non-fiction", "technical", "poetry", "prose"

Rules:
- Line numbers are relative to this excerpt, starting at 1.
- Only report headings that actually appear in the excerpt text.
- Suggest at most 3 image points per excerpt, only where an image genuinely adds value.
- Return an empty array when nothing qualifies.

Respond with ONLY the JSON object, no other text.`

// BuildChunkPrompt composes the full prompt for one chunk, including its
// place in the sequence so the model knows it is seeing a partial document.
func BuildChunkPrompt(req ChunkRequest) string {
	var sb strings.Builder
	sb.WriteString(analysisPrompt)
	sb.WriteString("\n\n---\n")
	sb.WriteString(fmt.Sprintf("Excerpt %d of %d", req.ChunkIndex+1, req.ChunkCount))
	if req.ChunkCount > 1 {
		sb.WriteString(fmt.Sprintf(" (document line %d onward)", req.BaseLine+1))
	}
	sb.WriteString("\n---\n")
	sb.WriteString(req.Text)
	return sb.String()
}
