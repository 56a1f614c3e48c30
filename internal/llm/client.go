package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// Client sends a prompt to the configured provider and returns its text
// completion along with the provider-reported token usage (0 if absent).
type Client interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (text string, tokensUsed int, err error)
}

// httpClient is Aura's sole provider implementation: a chat-completion
// POST against Configuration.BaseURI, shaped like the teacher's
// claudeClient/openAIClient but unified since Aura configures one
// provider per VM rather than testing several side by side.
type httpClient struct {
	config Configuration
	http   *http.Client
}

// NewClient builds a Client from Configuration. When Configuration.Testing
// is set, the returned client still implements the interface but callers
// are expected to route through a cache that never falls through to it.
func NewClient(config Configuration) Client {
	return &httpClient{config: config, http: &http.Client{Timeout: config.Timeout}}
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	Temperature      float64       `json:"temperature,omitempty"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	TopP             float64       `json:"top_p,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64       `json:"presence_penalty,omitempty"`
	ResponseFormat   *responseFmt  `json:"response_format,omitempty"`
}

type responseFmt struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Generate issues a chat-completion request, retrying transient failures
// with exponential backoff. A non-2xx response or malformed body is
// surfaced as a ProviderError by the caller.
func (c *httpClient) Generate(ctx context.Context, prompt string, jsonMode bool) (string, int, error) {
	req := chatRequest{
		Model:            c.config.Model,
		Messages:         []chatMessage{{Role: "user", Content: prompt}},
		Temperature:      c.config.Temperature,
		MaxTokens:        c.config.MaxTokens,
		TopP:             c.config.TopP,
		FrequencyPenalty: c.config.FrequencyPenalty,
		PresencePenalty:  c.config.PresencePenalty,
	}
	if jsonMode {
		req.ResponseFormat = &responseFmt{Type: "json_object"}
	}

	base, err := retry.NewExponential(1 * time.Second)
	if err != nil {
		return "", 0, fmt.Errorf("invalid retry backoff: %w", err)
	}
	backoff := retry.WithMaxRetries(uint64(c.config.MaxRetries), base)

	traceID := uuid.New().String()
	var text string
	var tokensUsed int
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, tok, err := c.makeRequest(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			return retry.RetryableError(err)
		}
		text, tokensUsed = t, tok
		return nil
	})
	if err != nil {
		return "", 0, fmt.Errorf("llm request %s failed: %w", traceID, err)
	}
	return text, tokensUsed, nil
}

func (c *httpClient) makeRequest(ctx context.Context, req chatRequest) (string, int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURI, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, &ProviderError{Code: resp.StatusCode, Message: truncate(string(respBody))}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", 0, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", 0, fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, parsed.Usage.TotalTokens, nil
}

// ProviderError is raised for any non-2xx provider response.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

func truncate(s string) string {
	if len(s) > 200 {
		return s[:200] + "... (truncated)"
	}
	return s
}
