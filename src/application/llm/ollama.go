package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"subtitle-workers/src/lib/werror"

	"github.com/apex/log"
)

const DefaultOllamaURL = "http://localhost:11434"

var _ Client = OllamaClient{}

type OllamaClient struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
}

func NewOllamaClient(baseURL string, modelName string) OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}

	return OllamaClient{
		baseURL:    baseURL,
		modelName:  modelName,
		httpClient: &http.Client{},
	}
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaChatResponse struct {
	Message chatMessage `json:"message"`
}

func (o OllamaClient) Chat(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return chatWithBackoff(ctx, "ollama", func() (string, error) {
		startTime := time.Now()

		response, err := o.chatOnce(ctx, systemPrompt, userPrompt)
		if err != nil {
			return "", err
		}

		log.WithFields(log.Fields{
			"model":    o.modelName,
			"duration": time.Since(startTime).String(),
		}).Debug("Ollama chat call finished")

		return response, nil
	})
}

func (o OllamaClient) chatOnce(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	requestBody := ollamaChatRequest{
		Model: o.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", werror.WrapError("Failed to marshal chat request", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", werror.WrapError("Failed to create chat request", err)
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := o.httpClient.Do(request)
	if err != nil {
		return "", werror.WrapError("Failed to reach the Ollama API", err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", werror.WrapError("Failed to read the Ollama response", err)
	}

	if response.StatusCode != http.StatusOK {
		errMsg := fmt.Sprintf("Ollama API returned status %d - body: %s", response.StatusCode, string(responseBytes))
		return "", werror.WrapError(errMsg, nil)
	}

	parsedResponse := ollamaChatResponse{}
	if err := json.Unmarshal(responseBytes, &parsedResponse); err != nil {
		return "", werror.WrapError("Failed to unmarshal the Ollama response", err)
	}

	return strings.TrimSpace(parsedResponse.Message.Content), nil
}
