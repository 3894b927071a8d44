package llm

import (
	"context"
	"time"

	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
)

const maxChatAttempts = 5

// chatWithBackoff retries a flaky chat call with exponential backoff,
// starting at one second and doubling per attempt.
func chatWithBackoff(ctx context.Context, description string, chat func() (string, error)) (string, error) {
	sleepTime := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxChatAttempts; attempt++ {
		response, err := chat()
		if err == nil {
			return response, nil
		}

		lastErr = err
		log.WithFields(log.Fields{
			"backend": description,
			"attempt": attempt,
		}).Warn("Chat call failed")

		if attempt == maxChatAttempts {
			break
		}

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return "", werror.WrapError("Context cancelled while waiting to retry chat call", ctx.Err())
		}
		sleepTime *= 2
	}

	return "", werror.WrapError("Chat call failed after all retry attempts", lastErr)
}
