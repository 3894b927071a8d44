package translator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"subtitle-workers/src/application/jobs/translate/translator"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// flakyTranslator fails the first failCount calls for each text, then
// translates by tagging the text.
type flakyTranslator struct {
	failCount int

	mutex    sync.Mutex
	attempts map[string]int
}

func (f *flakyTranslator) Translate(_ context.Context, text string, _ string, targetLanguage string) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.attempts == nil {
		f.attempts = map[string]int{}
	}

	f.attempts[text]++
	if f.attempts[text] <= f.failCount {
		return "", errors.New("translation service hiccup")
	}

	return "[" + targetLanguage + "] " + text, nil
}

var _ = Describe("TranslateAll", func() {
	It("translates every text in input order", func() {
		output := translator.TranslateAll(context.Background(), &flakyTranslator{}, []string{"one", "two", "three"}, "en", "zh")

		Expect(output).To(Equal([]string{"[zh] one", "[zh] two", "[zh] three"}))
	})

	It("retries failing items", func() {
		output := translator.TranslateAll(context.Background(), &flakyTranslator{failCount: 1}, []string{"one"}, "en", "zh")

		Expect(output).To(Equal([]string{"[zh] one"}))
	})

	It("falls back to the original text after exhausting retries", func() {
		output := translator.TranslateAll(context.Background(), &flakyTranslator{failCount: 100}, []string{"one"}, "en", "zh")

		Expect(output).To(Equal([]string{"one"}))
	})

	It("handles an empty batch", func() {
		output := translator.TranslateAll(context.Background(), &flakyTranslator{}, nil, "en", "zh")

		Expect(output).To(BeEmpty())
	})
})

var _ = Describe("NiutransTranslator", func() {
	var (
		server        *httptest.Server
		requestedURL  string
		responseBody  string
		subjectClient translator.NiutransTranslator
	)

	BeforeEach(func() {
		responseBody = `{"tgt_text": "你好"}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedURL = r.URL.String()
			_, _ = w.Write([]byte(responseBody))
		}))

		subjectClient = translator.NewNiutransTranslatorWithBaseURL("secret-key", server.URL)
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns the translated text", func() {
		output, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal("你好"))
	})

	It("sends the request parameters the service expects", func() {
		_, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).NotTo(HaveOccurred())

		Expect(requestedURL).To(ContainSubstring("from=en"))
		Expect(requestedURL).To(ContainSubstring("to=zh"))
		Expect(requestedURL).To(ContainSubstring("apikey=secret-key"))
		Expect(requestedURL).To(ContainSubstring("src_text=hello"))
	})

	It("normalizes language codes to the bare ISO style", func() {
		_, err := subjectClient.Translate(context.Background(), "hello", "english", "zh-cn")
		Expect(err).NotTo(HaveOccurred())

		Expect(requestedURL).To(ContainSubstring("from=en"))
		Expect(requestedURL).To(ContainSubstring("to=zh"))
	})

	It("returns empty output for empty input without calling the service", func() {
		requestedURL = ""

		output, err := subjectClient.Translate(context.Background(), "  ", "en", "zh")
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(BeEmpty())
		Expect(requestedURL).To(BeEmpty())
	})

	It("errors when the service reports a failure", func() {
		responseBody = `{"error_code": "13001", "error_msg": "api key error"}`

		_, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("GoogleTranslator", func() {
	var (
		server        *httptest.Server
		requestedURL  string
		responseBody  string
		statusCode    int
		subjectClient translator.GoogleTranslator
	)

	BeforeEach(func() {
		statusCode = http.StatusOK
		responseBody = `[[["你好","hello",null,null,10]],null,"en"]`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedURL = r.URL.String()
			w.WriteHeader(statusCode)
			_, _ = w.Write([]byte(responseBody))
		}))

		subjectClient = translator.NewGoogleTranslatorWithBaseURL(server.URL)
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns the translated text", func() {
		output, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal("你好"))
	})

	It("concatenates multi-sentence responses", func() {
		response := [][]interface{}{
			{
				[]interface{}{"你好。", "hello. ", nil},
				[]interface{}{"世界。", "world.", nil},
			},
		}
		responseBytes, err := json.Marshal(response)
		Expect(err).NotTo(HaveOccurred())
		responseBody = string(responseBytes)

		output, err := subjectClient.Translate(context.Background(), "hello. world.", "en", "zh")
		Expect(err).NotTo(HaveOccurred())
		Expect(output).To(Equal("你好。世界。"))
	})

	It("normalizes language codes to the Google style", func() {
		_, err := subjectClient.Translate(context.Background(), "hello", "english", "zh")
		Expect(err).NotTo(HaveOccurred())

		Expect(requestedURL).To(ContainSubstring("sl=en"))
		Expect(requestedURL).To(ContainSubstring("tl=zh-cn"))
	})

	It("auto-detects when no source language is given", func() {
		_, err := subjectClient.Translate(context.Background(), "hello", "", "zh")
		Expect(err).NotTo(HaveOccurred())

		Expect(requestedURL).To(ContainSubstring("sl=auto"))
	})

	It("errors on a failure status", func() {
		statusCode = http.StatusTooManyRequests

		_, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).To(HaveOccurred())
	})

	It("errors on a malformed response", func() {
		responseBody = `{"unexpected": "shape"}`

		_, err := subjectClient.Translate(context.Background(), "hello", "en", "zh")
		Expect(err).To(HaveOccurred())
	})
})
