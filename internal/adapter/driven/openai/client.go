// Package openai implements the CompletionClient port against the OpenAI
// chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chatgate/chatgate/internal/domain/model"
	"github.com/chatgate/chatgate/internal/domain/port/driven"
)

// DefaultBaseURL is the production completions API endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// systemPrompt is the constant first turn of every exchange. There is no
// conversation memory: each call is exactly this instruction plus one user
// message.
const systemPrompt = "You are a helpful assistant. Answer the user's message clearly and concisely."

// Compile-time interface satisfaction check.
var _ driven.CompletionClient = (*Client)(nil)

// Client implements the driven.CompletionClient port.
type Client struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// NewClient creates a completion client for the given API key and model.
func NewClient(apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
	}
}

// NewClientWithBaseURL creates a Client targeting a custom API endpoint.
// This constructor is intended for testing against an httptest server.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// completionRequest is the chat completions request payload.
type completionRequest struct {
	Model    string              `json:"model"`
	Messages []model.ChatMessage `json:"messages"`
}

// completionResponse is the subset of the chat completions response the
// adapter consumes.
type completionResponse struct {
	Choices []struct {
		Message model.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete submits the constant system instruction plus userText and returns
// the first choice's reply verbatim.
func (c *Client) Complete(ctx context.Context, userText string) (string, error) {
	payload := completionRequest{
		Model: c.model,
		Messages: []model.ChatMessage{
			{Role: model.RoleSystem, Content: systemPrompt},
			{Role: model.RoleUser, Content: userText},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("completion API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
