package dummy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"subtitle-workers/src/application/jobs/translate/translator"
)

var _ translator.Translator = &Translator{}

func NewDummyTranslator() *Translator {
	return &Translator{
		Unavailable: false,
	}
}

// Translator fakes machine translation by tagging the text with the
// target language, which keeps translations recognizable in assertions.
type Translator struct {
	Unavailable bool
	Requests    []string
	mutex       sync.Mutex
}

func (t *Translator) Translate(_ context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	if t.Unavailable {
		return "", NetworkFailure
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.Requests = append(t.Requests, text)

	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	return fmt.Sprintf("[%s] %s", targetLanguage, text), nil
}
