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

const openAIBaseURL = "https://api.openai.com"

var _ Client = OpenAIClient{}

type OpenAIClient struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string, modelName string) OpenAIClient {
	return NewOpenAIClientWithBaseURL(apiKey, modelName, openAIBaseURL)
}

func NewOpenAIClientWithBaseURL(apiKey string, modelName string, baseURL string) OpenAIClient {
	return OpenAIClient{
		apiKey:     apiKey,
		modelName:  modelName,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o OpenAIClient) Chat(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	return chatWithBackoff(ctx, "openai", func() (string, error) {
		startTime := time.Now()

		response, err := o.chatOnce(ctx, systemPrompt, userPrompt)
		if err != nil {
			return "", err
		}

		log.WithFields(log.Fields{
			"model":    o.modelName,
			"duration": time.Since(startTime).String(),
		}).Debug("OpenAI chat call finished")

		return response, nil
	})
}

func (o OpenAIClient) chatOnce(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	requestBody := openAIChatRequest{
		Model: o.modelName,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", werror.WrapError("Failed to marshal chat request", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", werror.WrapError("Failed to create chat request", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+o.apiKey)

	response, err := o.httpClient.Do(request)
	if err != nil {
		return "", werror.WrapError("Failed to reach the OpenAI API", err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", werror.WrapError("Failed to read the OpenAI response", err)
	}

	if response.StatusCode != http.StatusOK {
		errMsg := fmt.Sprintf("OpenAI API returned status %d - body: %s", response.StatusCode, string(responseBytes))
		return "", werror.WrapError(errMsg, nil)
	}

	parsedResponse := openAIChatResponse{}
	if err := json.Unmarshal(responseBytes, &parsedResponse); err != nil {
		return "", werror.WrapError("Failed to unmarshal the OpenAI response", err)
	}

	if len(parsedResponse.Choices) == 0 {
		return "", werror.WrapError("OpenAI response contained no choices", nil)
	}

	return strings.TrimSpace(parsedResponse.Choices[0].Message.Content), nil
}
