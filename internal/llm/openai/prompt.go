package openai

import (
	"fmt"
	"strings"

	"lease-backend/internal/llm"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const (
	systemPromptExtract = "You are an assistant that extracts structured data from real estate leases and contracts. Always return a single valid JSON object."

	extractTemperature = float32(0.1)
	answerTemperature  = float32(0.3)
)

// BuildExtractPrompt creates the chat messages for a field extraction
// request. Pure: identical inputs yield identical messages.
func BuildExtractPrompt(input llm.ExtractInput) []Message {
	text := llm.TruncateForPrompt(input.DocumentText, input.TableText, llm.ExtractCharBudget)
	user := fmt.Sprintf("%s\nDocument text:\n%s", llm.ExtractPromptTemplate(), text)
	return []Message{
		{Role: "system", Content: systemPromptExtract},
		{Role: "user", Content: user},
	}
}

// CleanJSONContent strips markdown code fences some models wrap around JSON.
func CleanJSONContent(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}
