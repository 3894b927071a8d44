package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"subtitle-workers/src/application/lang"
	"subtitle-workers/src/lib/cerr"
)

var _ Translator = GoogleTranslator{}

const DefaultGoogleTranslateURL = "https://translate.googleapis.com/translate_a/single"

func NewGoogleTranslator() GoogleTranslator {
	return NewGoogleTranslatorWithBaseURL(DefaultGoogleTranslateURL)
}

func NewGoogleTranslatorWithBaseURL(baseURL string) GoogleTranslator {
	return GoogleTranslator{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GoogleTranslator uses the free web translate endpoint. The response
// is an untyped nested array, the first element holds one entry per
// translated sentence fragment.
type GoogleTranslator struct {
	baseURL    string
	httpClient *http.Client
}

func (g GoogleTranslator) Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	sourceCode := "auto"
	if sourceLanguage != "" {
		sourceCode = lang.NormalizeForGoogle(sourceLanguage)
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", sourceCode)
	query.Set("tl", lang.NormalizeForGoogle(targetLanguage))
	query.Set("dt", "t")
	query.Set("q", text)

	requestURL := fmt.Sprintf("%s?%s", g.baseURL, query.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to create translation request")
	}

	response, err := g.httpClient.Do(request)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to call the translation service")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", cerr.Field("status_code", response.StatusCode).
			Error("Translation service returned a failure status")
	}

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to read the translation response")
	}

	return parseGoogleResponse(responseBody)
}

func parseGoogleResponse(responseBody []byte) (string, error) {
	parsedResponse := []interface{}{}
	if err := json.Unmarshal(responseBody, &parsedResponse); err != nil {
		return "", cerr.Wrap(err).Error("Failed to unmarshal the translation response")
	}

	if len(parsedResponse) == 0 {
		return "", cerr.Error("Translation response was empty")
	}

	sentences, ok := parsedResponse[0].([]interface{})
	if !ok {
		return "", cerr.Error("Translation response had an unexpected shape")
	}

	translatedText := strings.Builder{}
	for _, sentence := range sentences {
		sentenceParts, ok := sentence.([]interface{})
		if !ok || len(sentenceParts) == 0 {
			continue
		}

		translatedPart, ok := sentenceParts[0].(string)
		if !ok {
			continue
		}

		translatedText.WriteString(translatedPart)
	}

	if translatedText.Len() == 0 {
		return "", cerr.Error("Translation response contained no translated text")
	}

	return translatedText.String(), nil
}
