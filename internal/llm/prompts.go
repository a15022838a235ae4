package llm

import _ "embed"

//go:embed prompts/extract_v1.txt
var extractPromptV1 string

//go:embed prompts/qa_standard_v1.txt
var qaStandardPromptV1 string

//go:embed prompts/qa_persona_v1.txt
var qaPersonaPromptV1 string

//go:embed prompts/valuation_v1.txt
var valuationPromptV1 string

// ExtractPromptTemplate returns the instruction block for structured field
// extraction. Single version for now; kept embedded so prompt edits ship as
// plain text diffs.
func ExtractPromptTemplate() string {
	return extractPromptV1
}

// QASystemPrompt returns the system prompt for document Q&A. Persona mode
// answers in the voice of a named agent instead of a neutral assistant.
func QASystemPrompt(persona bool) string {
	if persona {
		return qaPersonaPromptV1
	}
	return qaStandardPromptV1
}

// ValuationSystemPrompt returns the system prompt for narrative valuations.
func ValuationSystemPrompt() string {
	return valuationPromptV1
}
