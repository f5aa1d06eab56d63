package nlu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbet/internal/metrics"
)

func testMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

func TestGeminiClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "models/gemini-1.5-flash:generateContent")
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hola"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		BaseURL: srv.URL,
		APIKey:  "secret",
		Model:   "gemini-1.5-flash",
	}, testLogger(), testMetrics())

	text, err := client.Generate(context.Background(), "di hola")
	require.NoError(t, err)
	assert.Equal(t, "hola", text)
}

func TestGeminiClientWithoutAPIKey(t *testing.T) {
	client := NewGeminiClient(GeminiConfig{Model: "gemini-1.5-flash"}, testLogger(), testMetrics())

	_, err := client.Generate(context.Background(), "di hola")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestGeminiClientNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		BaseURL: srv.URL,
		APIKey:  "secret",
		Model:   "gemini-1.5-flash",
	}, testLogger(), testMetrics())

	_, err := client.Generate(context.Background(), "di hola")
	assert.Error(t, err)
}

func TestGeminiClientNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(GeminiConfig{
		BaseURL: srv.URL,
		APIKey:  "secret",
		Model:   "gemini-1.5-flash",
	}, testLogger(), testMetrics())

	_, err := client.Generate(context.Background(), "di hola")
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose trimmed", `Claro, aquí tienes: {"a":1} espero que sirva`, `{"a":1}`},
		{"fence with prose", "```json\n{\"a\":1}\n```\n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
