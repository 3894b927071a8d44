package translator

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	concurrentTranslationLimit = 5
	maxTranslationAttempts     = 5
)

// TranslateAll translates every text through the given translator,
// a few in flight at a time. Each item is retried with exponential
// backoff, and an item that still fails after all attempts falls back
// to its original text so one bad segment cannot sink the whole batch.
// The result slice matches the input ordering.
func TranslateAll(ctx context.Context, textTranslator Translator, texts []string, sourceLanguage string, targetLanguage string) []string {
	translations := make([]string, len(texts))
	semaphore := make(chan struct{}, concurrentTranslationLimit)

	waitGroup := sync.WaitGroup{}
	for i, text := range texts {
		waitGroup.Add(1)

		go func(index int, original string) {
			defer waitGroup.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			translations[index] = translateWithRetry(ctx, textTranslator, original, sourceLanguage, targetLanguage)
		}(i, text)
	}

	waitGroup.Wait()

	return translations
}

func translateWithRetry(ctx context.Context, textTranslator Translator, text string, sourceLanguage string, targetLanguage string) string {
	sleepTime := 1 * time.Second

	for attempt := 1; attempt <= maxTranslationAttempts; attempt++ {
		translation, err := textTranslator.Translate(ctx, text, sourceLanguage, targetLanguage)
		if err == nil {
			return translation
		}

		log.WithField("attempt", attempt).Warn("Translation attempt failed")

		if attempt == maxTranslationAttempts {
			break
		}

		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return text
		}
		sleepTime *= 2
	}

	return text
}
