package campus

import (
	"fmt"
	"strings"
)

// DefaultSystemPrompt is the persona used when no prompt is configured.
const DefaultSystemPrompt = `You are KCA Connect AI, the official AI assistant of KCA University.

Instructions:
1. If asked about your name, identify yourself as "KCA Connect AI".
2. Use the context below to provide accurate information about KCA University.
3. If a question refers to earlier topics ("it", "they", "this", "that"), use the conversation history to resolve what is meant.
4. If you cannot find the answer in the context, say so honestly and suggest contacting the university administration.
5. Separate headings, lists and code blocks from surrounding prose with blank lines.`

// DefaultGreeting is the first assistant message of a new session.
const DefaultGreeting = "Hello! I'm your KCA University assistant. How can I help you today?"

// BuildPrompt appends retrieved passages to the base system prompt.
// Passages are numbered in the order given.
func BuildPrompt(base string, passages []Passage) string {
	if len(passages) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nContext from documents:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d] %s\n%s\n", i+1, p.Source, strings.TrimSpace(p.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// recoveryAnswer is returned when the provider fails before answering.
func recoveryAnswer(passages []Passage) string {
	return "I had trouble summarizing the information, but here is what I found in our records:\n\n" + joinPassages(passages)
}

// documentsAnswer is returned when no provider is configured.
func documentsAnswer(passages []Passage) string {
	if len(passages) == 0 {
		return "I couldn't find any relevant information."
	}
	return "Based on the available information from our documents:\n\n" + joinPassages(passages) +
		"\n\n(Note: the AI model is currently disabled for summarizing.)"
}

func joinPassages(passages []Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, strings.TrimSpace(p.Text))
	}
	return strings.Join(texts, "\n\n")
}
