package huggingface_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

const defaultBaseURL = "https://router.huggingface.co/v1"

const defaultModel = "Qwen/Qwen2.5-Coder-32B-Instruct"

// client implements the Provider interface against the HuggingFace
// OpenAI-compatible inference router.
type client struct {
	token       string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	costIn      float64
	costOut     float64
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a chat completion request
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a chat completion response
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// NewClient creates a new HuggingFace inference client
func NewClient(token string, cfg config.LLMProvider) *client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &client{
		token:       token,
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		costIn:      cfg.CostPer1K,
		costOut:     cfg.CostPer1KOut,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *client) Model() string { return c.model }

func (c *client) CalculateCost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)/1000*c.costIn + float64(outputTokens)/1000*c.costOut
}

// Generate implements the Provider interface
func (c *client) Generate(ctx context.Context, system, user string) (string, error) {
	out, _, _, err := c.GenerateWithTokens(ctx, system, user)
	return out, err
}

// GenerateWithTokens sends a chat completion request and reports token usage
func (c *client) GenerateWithTokens(ctx context.Context, system, user string) (string, int64, int64, error) {
	var messages []Message
	if system != "" {
		messages = append(messages, Message{Role: "system", Content: system})
	}
	messages = append(messages, Message{Role: "user", Content: user})

	body, err := json.Marshal(request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", 0, 0, fmt.Errorf("HuggingFace API returned status %d: %s", resp.StatusCode, string(b))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", 0, 0, fmt.Errorf("no choices in response")
	}
	return out.Choices[0].Message.Content, int64(out.Usage.PromptTokens), int64(out.Usage.CompletionTokens), nil
}
