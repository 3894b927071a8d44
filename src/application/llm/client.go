package llm

import (
	"context"
	"strings"

	"subtitle-workers/src/lib/werror"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const (
	GPTBackend    = "gpt"
	OllamaBackend = "ollama"

	DefaultGPTModel    = "gpt-4o"
	DefaultOllamaModel = "huihui_ai/qwen2.5-1m-abliterated:7b"
)

//counterfeiter:generate . Client
type Client interface {
	Chat(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// NewClient picks the chat backend by name. Anything containing "ollama"
// selects the local Ollama API, everything else falls through to the
// OpenAI-compatible API, which matches how callers pass free-form backend
// strings on the command line.
func NewClient(backend string, modelName string, apiKey string, ollamaURL string) (Client, error) {
	if strings.Contains(strings.ToLower(backend), OllamaBackend) {
		if modelName == "" {
			modelName = DefaultOllamaModel
		}

		return NewOllamaClient(ollamaURL, modelName), nil
	}

	if apiKey == "" {
		return nil, werror.WrapError("An API key is required for the GPT backend", nil)
	}

	if modelName == "" {
		modelName = DefaultGPTModel
	}

	return NewOpenAIClient(apiKey, modelName), nil
}
