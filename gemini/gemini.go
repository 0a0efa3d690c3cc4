// Package gemini implements [campus.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. Streaming uses the SDK's
// iter.Seq2 iterator, pulled one chunk at a time behind [campus.Stream].
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 4096
)
