package translation

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs system and user prompts for translation.
type PromptBuilder struct {
	source string
	target string
}

// NewPromptBuilder creates a prompt builder for a language pair, given as
// language codes or names.
func NewPromptBuilder(source, target string) *PromptBuilder {
	return &PromptBuilder{source: languageName(source), target: languageName(target)}
}

// BatchDelimiter separates translations in a batch response.
const BatchDelimiter = "|||"

const systemPromptTemplate = `You are a professional game localizer translating the on-screen text of a Flash game from %[1]s to %[2]s.

Rules:
1. Translate %[1]s to natural, concise %[2]s.
2. Each input is a fragment of a line that may be split around formatting tags; translate the fragment alone and keep leading and trailing spaces.
3. Preserve ALL placeholders like {{var_1}}, {{var_2}}, etc. exactly as-is.
4. Do not add quotes, markup, explanations or notes.
5. If a term appears in the provided terminology, always use its given translation.
6. Keep the tone and register of the original.`

// GetSystemPrompt returns the system prompt for translation.
func (pb *PromptBuilder) GetSystemPrompt() string {
	return fmt.Sprintf(systemPromptTemplate, pb.source, pb.target)
}

// BuildUserPrompt constructs the prompt for a single text.
func (pb *PromptBuilder) BuildUserPrompt(text, context string) string {
	var sb strings.Builder
	if context != "" {
		sb.WriteString(context)
	}
	sb.WriteString(fmt.Sprintf("Text to translate:\n%s", text))
	return sb.String()
}

// BuildBatchUserPrompt constructs a prompt for batch translations.
func (pb *PromptBuilder) BuildBatchUserPrompt(texts []string, context string) string {
	var sb strings.Builder
	if context != "" {
		sb.WriteString(context)
	}

	sb.WriteString(fmt.Sprintf("Translate each text below. Return ONLY the translations, separated by %s, in the same order.\n\n", BatchDelimiter))
	for i, t := range texts {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, t))
	}
	return sb.String()
}

var languageNames = map[string]string{
	"ja": "Japanese",
	"en": "English",
	"zh": "Chinese",
	"ko": "Korean",
	"vi": "Vietnamese",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
