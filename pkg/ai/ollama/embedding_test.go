package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func embeddingTestClient(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(body)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(NewClientParams{
		EmbeddingModel: "test-embed",
		BaseURL:        server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestGenerateEmbedding(t *testing.T) {
	client := embeddingTestClient(t, `{"model":"test-embed","embeddings":[[0.1,0.2,0.3]]}`)

	vector, err := client.GenerateEmbedding(context.Background(), []byte("graph retrieval"))
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("vector length = %d", len(vector))
	}
}

func TestGenerateEmbeddingEmptyResponse(t *testing.T) {
	client := embeddingTestClient(t, `{"model":"test-embed","embeddings":[]}`)

	if _, err := client.GenerateEmbedding(context.Background(), []byte("graph retrieval")); err == nil {
		t.Fatal("expected error for a response without embeddings")
	}
}

func TestGenerateEmbeddingBlankInputSkipsServer(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := NewClient(NewClientParams{EmbeddingModel: "test-embed", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	vector, err := client.GenerateEmbedding(context.Background(), []byte("   "))
	if err != nil {
		t.Fatalf("GenerateEmbedding failed: %v", err)
	}
	if len(vector) != defaultDimensions {
		t.Fatalf("zero vector length = %d", len(vector))
	}
	for _, v := range vector {
		if v != 0 {
			t.Fatal("blank input should yield a zero vector")
		}
	}
	if called {
		t.Fatal("blank input reached the server")
	}
}
