package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("http://localhost:11434/api/chat")
	assert.NoError(t, err)

	_, err = NewClient("localhost")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"llava","message":{"role":"assistant","content":"a quiet beach at dusk"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	img := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	answer, err := c.Describe(context.Background(), "llava", "describe", img)
	require.NoError(t, err)
	assert.Equal(t, "a quiet beach at dusk", answer)
	assert.Equal(t, "llava", got["model"])
	assert.Equal(t, false, got["stream"])
}

func TestDescribeEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model":"llava","message":{"role":"assistant","content":"  "},"done":true}` + "\n"))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.Describe(context.Background(), "llava", "describe", base64.StdEncoding.EncodeToString([]byte("x")))
	assert.Error(t, err)
}

func TestDescribeBadBase64(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = c.Describe(context.Background(), "llava", "describe", "%%%")
	assert.Error(t, err)
}

func TestModelOptions(t *testing.T) {
	assert.Empty(t, modelOptions("llava:7b"))
	assert.Equal(t, 4096, modelOptions("openbmb/minicpm-v4.5")["num_ctx"])
}
