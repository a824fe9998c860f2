package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minhtn/ragchat/internal/config"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("X-goog-api-key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Contains(t, req.Contents[0].Parts[0].Text, "Câu hỏi")

		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Đáp án."}]}}]}`)
	}))
	defer srv.Close()

	g := NewGemini(config.LLMConfig{APIKey: "secret", Model: "gemini-2.0-flash", BaseURL: srv.URL})
	out, err := g.Generate(context.Background(), "Câu hỏi: thủ đô?")
	require.NoError(t, err)
	require.Equal(t, "Đáp án.", out)
}

func TestGeminiGenerate_NoKey(t *testing.T) {
	g := NewGemini(config.LLMConfig{Model: "gemini-2.0-flash"})
	_, err := g.Generate(context.Background(), "q")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeminiGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGemini(config.LLMConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "q")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestGeminiGenerate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	g := NewGemini(config.LLMConfig{APIKey: "k", Model: "m", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "q")
	require.Error(t, err)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.LLMConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
}
