package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"subtitle-workers/src/application/llm"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewClient", func() {
	It("builds an OpenAI client for the gpt backend", func() {
		client, err := llm.NewClient("gpt", "", "some-key", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(llm.OpenAIClient{}))
	})

	It("defaults to the gpt backend for unknown names", func() {
		client, err := llm.NewClient("", "", "some-key", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(llm.OpenAIClient{}))
	})

	It("requires an API key for the gpt backend", func() {
		_, err := llm.NewClient("gpt", "", "", "")
		Expect(err).To(HaveOccurred())
	})

	It("builds an Ollama client for any backend naming ollama", func() {
		client, err := llm.NewClient("ollama", "", "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(llm.OllamaClient{}))

		client, err = llm.NewClient("local-ollama", "", "", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(client).To(BeAssignableToTypeOf(llm.OllamaClient{}))
	})
})

var _ = Describe("OpenAIClient", func() {
	var (
		server       *httptest.Server
		authHeader   string
		requestBody  map[string]interface{}
		responseCode int
		responseBody string
	)

	BeforeEach(func() {
		responseCode = http.StatusOK
		responseBody = `{"choices": [{"message": {"role": "assistant", "content": " the answer "}}]}`

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")

			bodyBytes, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(bodyBytes, &requestBody)

			w.WriteHeader(responseCode)
			_, _ = w.Write([]byte(responseBody))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns the trimmed message content", func() {
		client := llm.NewOpenAIClientWithBaseURL("some-key", "gpt-4o", server.URL)

		response, err := client.Chat(context.Background(), "be helpful", "what is the answer")
		Expect(err).NotTo(HaveOccurred())
		Expect(response).To(Equal("the answer"))
	})

	It("sends the model and both prompt roles", func() {
		client := llm.NewOpenAIClientWithBaseURL("some-key", "gpt-4o", server.URL)

		_, err := client.Chat(context.Background(), "be helpful", "what is the answer")
		Expect(err).NotTo(HaveOccurred())

		Expect(requestBody["model"]).To(Equal("gpt-4o"))

		messages, ok := requestBody["messages"].([]interface{})
		Expect(ok).To(BeTrue())
		Expect(messages).To(HaveLen(2))
	})

	It("authenticates with a bearer token", func() {
		client := llm.NewOpenAIClientWithBaseURL("some-key", "gpt-4o", server.URL)

		_, err := client.Chat(context.Background(), "be helpful", "what is the answer")
		Expect(err).NotTo(HaveOccurred())
		Expect(authHeader).To(Equal("Bearer some-key"))
	})

	It("errors when the response has no choices", func() {
		responseBody = `{"choices": []}`
		client := llm.NewOpenAIClientWithBaseURL("some-key", "gpt-4o", server.URL)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Chat(ctx, "be helpful", "what is the answer")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("OllamaClient", func() {
	var (
		server      *httptest.Server
		requestBody map[string]interface{}
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(bodyBytes, &requestBody)

			_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "local answer"}}`))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	It("returns the message content", func() {
		client := llm.NewOllamaClient(server.URL, "some-model")

		response, err := client.Chat(context.Background(), "be helpful", "what is the answer")
		Expect(err).NotTo(HaveOccurred())
		Expect(response).To(Equal("local answer"))
	})

	It("asks for a non streaming response", func() {
		client := llm.NewOllamaClient(server.URL, "some-model")

		_, err := client.Chat(context.Background(), "be helpful", "what is the answer")
		Expect(err).NotTo(HaveOccurred())
		Expect(requestBody["stream"]).To(Equal(false))
		Expect(requestBody["model"]).To(Equal("some-model"))
	})
})
