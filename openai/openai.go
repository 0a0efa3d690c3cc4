// Package openai implements [campus.Provider] for OpenAI-compatible chat
// completion endpoints, such as Groq and Cerebras, over the openai-go SDK.
package openai

// Presets for the hosted OpenAI-compatible backends.
const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqModel        = "llama-3.3-70b-versatile"
	CerebrasBaseURL  = "https://api.cerebras.ai/v1"
	CerebrasModel    = "llama-3.3-70b"
	defaultMaxTokens = 4096
)
