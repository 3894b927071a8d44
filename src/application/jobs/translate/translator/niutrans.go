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

var _ Translator = NiutransTranslator{}

const DefaultNiutransURL = "http://api.niutrans.com/NiuTransServer/translation"

func NewNiutransTranslator(apiKey string) NiutransTranslator {
	return NewNiutransTranslatorWithBaseURL(apiKey, DefaultNiutransURL)
}

func NewNiutransTranslatorWithBaseURL(apiKey string, baseURL string) NiutransTranslator {
	return NiutransTranslator{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type NiutransTranslator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type niutransResponse struct {
	TgtText   string `json:"tgt_text"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

func (n NiutransTranslator) Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	query := url.Values{}
	query.Set("from", lang.NormalizeForAPI(sourceLanguage))
	query.Set("to", lang.NormalizeForAPI(targetLanguage))
	query.Set("apikey", n.apiKey)
	query.Set("src_text", text)

	requestURL := fmt.Sprintf("%s?%s", n.baseURL, query.Encode())
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to create translation request")
	}

	response, err := n.httpClient.Do(request)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to call the translation service")
	}
	defer response.Body.Close()

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return "", cerr.Wrap(err).Error("Failed to read the translation response")
	}

	parsedResponse := niutransResponse{}
	if err := json.Unmarshal(responseBody, &parsedResponse); err != nil {
		return "", cerr.Wrap(err).Error("Failed to unmarshal the translation response")
	}

	if parsedResponse.TgtText == "" {
		return "", cerr.Fields(cerr.F{
			"error_code": parsedResponse.ErrorCode,
			"error_msg":  parsedResponse.ErrorMsg,
		}).Error("Translation service did not return a translation")
	}

	return parsedResponse.TgtText, nil
}
