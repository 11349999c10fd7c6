package rag_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abhimanyu-1/Shibu-App/rag"
)

func TestOllamaEmbedderParsesVector(t *testing.T) {
	var gotBody struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"embedding":[0.25,-1.5,3]}`))
	}))
	defer server.Close()

	embedder := rag.NewOllamaEmbedder(server.URL, "all-minilm", 0)
	vec, err := embedder.Embed(context.Background(), "scene")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	want := []float32{0.25, -1.5, 3}
	if len(vec) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
	if gotBody.Model != "all-minilm" || gotBody.Prompt != "scene" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestOllamaEmbedderRejectsEmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding":[]}`))
	}))
	defer server.Close()

	embedder := rag.NewOllamaEmbedder(server.URL, "", 0)
	if _, err := embedder.Embed(context.Background(), "scene"); err == nil {
		t.Fatal("expected error for empty embedding")
	}
}
