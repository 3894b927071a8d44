package translator

import "context"

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

// Translator performs a single machine translation of one piece of
// text. Implementations normalize language codes to whatever dialect
// their backing service expects.
//counterfeiter:generate . Translator
type Translator interface {
	Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error)
}
