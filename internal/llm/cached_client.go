package llm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// CachedClient wraps a Client with the content-addressed cache described
// in the request/cache contract: lookup always precedes any network
// call, and a provider failure is never written back.
type CachedClient struct {
	inner   Client
	cache   *Cache
	config  Configuration
	verbose bool
	out     io.Writer
}

// NewCachedClient builds a CachedClient. In Testing mode, verbose cache
// tracing is enabled and a cache miss is itself an error rather than a
// network call. Diagnostic output (cache tracing, swallowed cache-write
// failures) goes to os.Stderr until SetOutput reassigns it.
func NewCachedClient(inner Client, cache *Cache, config Configuration) *CachedClient {
	return &CachedClient{inner: inner, cache: cache, config: config, verbose: config.Testing, out: os.Stderr}
}

// SetOutput redirects the client's diagnostic output (cache tracing and
// swallowed cache-write failures) to w.
func (c *CachedClient) SetOutput(w io.Writer) {
	if w != nil {
		c.out = w
	}
}

// Generate looks up the cache first; on a miss (and unless Testing mode
// forbids it) it calls the underlying provider and stores the result.
func (c *CachedClient) Generate(ctx context.Context, prompt string, jsonMode bool) (string, int, error) {
	params := serializeParams(c.config)
	key := Key(prompt, c.config.Model, c.config.BaseURI, params)

	if resp, ok := c.cache.Lookup(key); ok {
		if c.verbose {
			fmt.Fprintf(c.out, "aua: cache hit %s\n", key[:12])
		}
		return resp, 0, nil
	}

	if c.config.Testing {
		return "", 0, fmt.Errorf("testing mode: no cached response for key %s", key)
	}
	if c.verbose {
		fmt.Fprintf(c.out, "aua: cache miss %s\n", key[:12])
	}

	requestedAt := time.Now()
	text, tokensUsed, err := c.inner.Generate(ctx, prompt, jsonMode)
	if err != nil {
		return "", 0, err
	}
	respondedAt := time.Now()

	value := CacheValue{
		Message:     text,
		Model:       c.config.Model,
		Prompt:      prompt,
		TokensUsed:  tokensUsed,
		Parameters:  paramsMap(c.config),
		RequestedAt: requestedAt,
		RespondedAt: respondedAt,
	}
	// spec.md §7: a cache-write failure is logged and swallowed, never
	// promoted to a returned error — the completion itself still succeeded.
	if err := c.cache.Store(key, value); err != nil {
		fmt.Fprintf(c.out, "aua: cache store failed for %s: %v\n", key[:12], err)
	}
	return text, tokensUsed, nil
}

func serializeParams(cfg Configuration) string {
	return "t=" + strconv.FormatFloat(cfg.Temperature, 'f', -1, 64) +
		",mt=" + strconv.Itoa(cfg.MaxTokens) +
		",tp=" + strconv.FormatFloat(cfg.TopP, 'f', -1, 64) +
		",fp=" + strconv.FormatFloat(cfg.FrequencyPenalty, 'f', -1, 64) +
		",pp=" + strconv.FormatFloat(cfg.PresencePenalty, 'f', -1, 64)
}

func paramsMap(cfg Configuration) map[string]string {
	return map[string]string{
		"temperature":       strconv.FormatFloat(cfg.Temperature, 'f', -1, 64),
		"max_tokens":        strconv.Itoa(cfg.MaxTokens),
		"top_p":             strconv.FormatFloat(cfg.TopP, 'f', -1, 64),
		"frequency_penalty": strconv.FormatFloat(cfg.FrequencyPenalty, 'f', -1, 64),
		"presence_penalty":  strconv.FormatFloat(cfg.PresencePenalty, 'f', -1, 64),
	}
}
