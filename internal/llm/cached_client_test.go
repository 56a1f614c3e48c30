package llm

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	calls     int
	responses []string
	err       error
}

func (s *stubClient) Generate(ctx context.Context, prompt string, jsonMode bool) (string, int, error) {
	s.calls++
	if s.err != nil {
		return "", 0, s.err
	}
	return s.responses[0], 0, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCachedClientMissCallsProviderAndStores(t *testing.T) {
	cache := newTestCache(t)
	stub := &stubClient{responses: []string{"hello"}}
	client := NewCachedClient(stub, cache, Configuration{Model: "m", BaseURI: "u"})

	resp, _, err := client.Generate(context.Background(), "prompt", false)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
	assert.Equal(t, 1, stub.calls)

	resp2, _, err := client.Generate(context.Background(), "prompt", false)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp2)
	assert.Equal(t, 1, stub.calls, "second call should hit cache, not the provider")
}

func TestCachedClientTestingModeRejectsCacheMiss(t *testing.T) {
	cache := newTestCache(t)
	stub := &stubClient{responses: []string{"hello"}}
	client := NewCachedClient(stub, cache, Configuration{Model: "m", BaseURI: "u", Testing: true})

	_, _, err := client.Generate(context.Background(), "prompt", false)
	assert.Error(t, err)
	assert.Equal(t, 0, stub.calls)
}

func TestCachedClientSwallowsCacheWriteFailureAndStillReturnsTheCompletion(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Close()) // writes to the closed file now fail

	stub := &stubClient{responses: []string{"hello"}}
	client := NewCachedClient(stub, cache, Configuration{Model: "m", BaseURI: "u"})
	var out bytes.Buffer
	client.SetOutput(&out)

	resp, _, err := client.Generate(context.Background(), "prompt", false)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
	assert.Contains(t, out.String(), "cache store failed")
}

func TestCachedClientTestingModeHonorsPrewarmedCache(t *testing.T) {
	cache := newTestCache(t)
	config := Configuration{Model: "m", BaseURI: "u", Testing: true}
	key := Key("prompt", config.Model, config.BaseURI, serializeParams(config))
	require.NoError(t, cache.Store(key, CacheValue{Message: "canned"}))

	stub := &stubClient{responses: []string{"hello"}}
	client := NewCachedClient(stub, cache, config)

	resp, _, err := client.Generate(context.Background(), "prompt", false)
	require.NoError(t, err)
	assert.Equal(t, "canned", resp)
	assert.Equal(t, 0, stub.calls)
}
