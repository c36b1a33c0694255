package huggingface_provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

func TestGenerateWithTokens(t *testing.T) {
	var gotAuth string
	var gotReq request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "hello from the model"}}},
			"usage":   map[string]any{"prompt_tokens": 12, "completion_tokens": 7},
		})
	}))
	defer srv.Close()

	c := NewClient("test-token", config.LLMProvider{BaseURL: srv.URL, Model: "test-model"})
	out, in, outTok, err := c.GenerateWithTokens(context.Background(), "be brief", "hi")
	if err != nil {
		t.Fatalf("GenerateWithTokens: %v", err)
	}
	if out != "hello from the model" {
		t.Fatalf("out = %q", out)
	}
	if in != 12 || outTok != 7 {
		t.Fatalf("tokens = %d/%d", in, outTok)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "hi" {
		t.Fatalf("messages = %+v", gotReq.Messages)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("model = %q", gotReq.Model)
	}
}

func TestGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("t", config.LLMProvider{BaseURL: srv.URL})
	if _, err := c.Generate(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestDefaults(t *testing.T) {
	c := NewClient("t", config.LLMProvider{})
	if c.Model() != "Qwen/Qwen2.5-Coder-32B-Instruct" {
		t.Fatalf("default model = %q", c.Model())
	}
}

func TestCalculateCost(t *testing.T) {
	c := NewClient("t", config.LLMProvider{CostPer1K: 0.5, CostPer1KOut: 1.0})
	if got := c.CalculateCost(2000, 1000); got != 2.0 {
		t.Fatalf("cost = %v", got)
	}
}
