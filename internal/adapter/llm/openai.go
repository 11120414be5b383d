package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Generation failure classes. Callers branch on these with errors.Is instead
// of matching sentinel text in the response body.
var (
	// ErrMissingAPIKey means the credential environment variable is unset.
	ErrMissingAPIKey = errors.New("chat API key not configured")
	// ErrRequestFailed covers transport errors, including timeouts.
	ErrRequestFailed = errors.New("chat request failed")
	// ErrBadStatus means the API answered with a non-2xx status.
	ErrBadStatus = errors.New("chat API returned error status")
	// ErrMalformedResponse means the body lacked the expected completion.
	ErrMalformedResponse = errors.New("chat API response missing completion")
)

// Client is a generic OpenAI-compatible chat-completions client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	headers     map[string]string
	client      *http.Client
}

// ChatMessage represents a message in the chat format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Options configures a Client beyond its endpoint and model.
type Options struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// Headers are sent verbatim with every request, e.g. the
	// HTTP-Referer / X-Title pair OpenRouter asks for.
	Headers map[string]string
}

// NewClient creates a chat client. The API key is read from the named
// environment variable; a missing key is not fatal here so the process can
// still start and serve degraded answers, but every Generate call will
// return ErrMissingAPIKey.
func NewClient(baseURL, model, apiKeyEnv string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      os.Getenv(apiKeyEnv),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		headers:     opts.Headers,
		client:      &http.Client{Timeout: timeout},
	}
}

// NewOpenRouterClient creates a client against OpenRouter with the extra
// attribution headers the service expects.
func NewOpenRouterClient(model, apiKeyEnv string, opts Options) *Client {
	if opts.Headers == nil {
		opts.Headers = map[string]string{
			"HTTP-Referer": "https://github.com/supportbot",
			"X-Title":      "Customer Support Bot",
		}
	}
	return NewClient("https://openrouter.ai/api/v1", model, apiKeyEnv, opts)
}

// Chat sends a single-turn chat completion request.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return "", fmt.Errorf("%w: %d: %s", ErrBadStatus, resp.StatusCode, preview)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrBadStatus, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Generate implements single-turn generation.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []ChatMessage{{Role: "user", Content: prompt}})
}

// GenerateWithSystem implements generation with a system prompt.
func (c *Client) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.Chat(ctx, []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string {
	return c.model
}
