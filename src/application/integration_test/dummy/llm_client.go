package dummy

import (
	"context"
	"sync"

	"subtitle-workers/src/application/llm"
)

var _ llm.Client = &LLMClient{}

func NewDummyLLMClient() *LLMClient {
	return &LLMClient{
		Unavailable: false,
	}
}

// LLMClient replies from a fixed script: each prompt is answered by
// ChatFunc if set, otherwise with an empty string. All prompts are
// recorded for inspection.
type LLMClient struct {
	Unavailable bool
	ChatFunc    func(systemPrompt string, userPrompt string) string
	Prompts     []string
	mutex       sync.Mutex
}

func (l *LLMClient) Chat(_ context.Context, systemPrompt string, userPrompt string) (string, error) {
	if l.Unavailable {
		return "", NetworkFailure
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.Prompts = append(l.Prompts, userPrompt)

	if l.ChatFunc == nil {
		return "", nil
	}

	return l.ChatFunc(systemPrompt, userPrompt), nil
}
