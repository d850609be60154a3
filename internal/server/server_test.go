package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/linqiu-dev/mingshi/internal/llm"
	"github.com/linqiu-dev/mingshi/internal/prompts"
	"github.com/linqiu-dev/mingshi/internal/session"
)

const mockReply = `{"primary":{"name":"麦克尔","explanation":"Mài Kè Ěr"},"alternatives":[]}`

type stubClient struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (c *stubClient) Chat(ctx context.Context, model string, messages []llm.ChatMessage, opts llm.ChatOptions) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return llm.Response{}, c.err
	}
	return llm.Response{Content: c.reply}, nil
}

func newTestServer(client llm.Client) (*Server, *prompts.Store) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	promptStore := prompts.NewStore()
	svc := session.NewService(client, promptStore, session.Config{
		Model:                "gpt-4o-mini",
		MaxConversationTurns: 20,
		MaxSessionMessages:   10,
		MaxTokensPerSession:  5000,
		CostThresholdUSD:     1.0,
		InputTokenPrice:      0.00015,
		OutputTokenPrice:     0.0006,
		RequestTimeout:       time.Second,
		IdleTimeout:          30 * time.Minute,
	}, log)

	return New(svc, promptStore, log), promptStore
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	return resp.Data
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(&stubClient{reply: mockReply})
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestCreateSessionFlow(t *testing.T) {
	srv, _ := newTestServer(&stubClient{reply: mockReply})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"name": "Michael"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeData(t, rec)
	id, _ := data["sessionId"].(string)
	if id == "" {
		t.Fatalf("missing session id in %v", data)
	}

	// Continue the conversation.
	rec = doJSON(t, handler, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "shorter please"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Fetch metadata.
	rec = doJSON(t, handler, http.MethodGet, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	meta := decodeData(t, rec)
	if meta["turnCount"].(float64) != 2 {
		t.Errorf("expected turnCount 2, got %v", meta["turnCount"])
	}

	// Delete, then verify it is gone.
	rec = doJSON(t, handler, http.MethodDelete, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/sessions/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	srv, _ := newTestServer(&stubClient{reply: mockReply})
	handler := srv.Handler()

	tests := []struct {
		name string
		body any
	}{
		{"empty name", map[string]string{"name": ""}},
		{"too long", map[string]string{"name": strings.Repeat("x", 51)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/sessions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), "Invalid input") {
				t.Errorf("expected Invalid input label, got %s", rec.Body.String())
			}
		})
	}
}

func TestCreateSessionMalformedBody(t *testing.T) {
	srv, _ := newTestServer(&stubClient{reply: mockReply})

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContinueSessionNotFound(t *testing.T) {
	srv, _ := newTestServer(&stubClient{reply: mockReply})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/sessions/no-such-id/messages", map[string]string{"message": "hello"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerationFailureMapsToBadGateway(t *testing.T) {
	srv, _ := newTestServer(&stubClient{err: fmt.Errorf("503 service unavailable")})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/sessions", map[string]string{"name": "Michael"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerationFailureHintsRetryable(t *testing.T) {
	// Classified provider errors carry a retry hint through to the 502 body.
	srv, _ := newTestServer(&stubClient{err: llm.WrapProviderError(fmt.Errorf("503 service unavailable"), http.StatusServiceUnavailable)})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/sessions", map[string]string{"name": "Michael"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "please retry") {
		t.Errorf("expected retry hint in body, got %s", rec.Body.String())
	}

	// Auth failures are not retryable and must not carry the hint.
	srv, _ = newTestServer(&stubClient{err: llm.WrapProviderError(fmt.Errorf("401 unauthorized"), http.StatusUnauthorized)})

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/api/sessions", map[string]string{"name": "Michael"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "please retry") {
		t.Errorf("non-retryable failure must not carry a retry hint: %s", rec.Body.String())
	}
}

func TestLimitMapsToTooManyRequests(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	promptStore := prompts.NewStore()
	svc := session.NewService(&stubClient{reply: mockReply}, promptStore, session.Config{
		Model:                "gpt-4o-mini",
		MaxConversationTurns: 1,
		MaxSessionMessages:   10,
		MaxTokensPerSession:  5000,
		CostThresholdUSD:     1.0,
		RequestTimeout:       time.Second,
		IdleTimeout:          30 * time.Minute,
	}, log)
	handler := New(svc, promptStore, log).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/sessions", map[string]string{"name": "Michael"})
	data := decodeData(t, rec)
	id := data["sessionId"].(string)

	rec = doJSON(t, handler, http.MethodPost, "/api/sessions/"+id+"/messages", map[string]string{"message": "more"})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPromptEndpoints(t *testing.T) {
	srv, promptStore := newTestServer(&stubClient{reply: mockReply})
	handler := srv.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/prompt", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeData(t, rec)
	if data["prompt"].(string) == "" {
		t.Error("expected a default prompt")
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/prompt", map[string]string{"prompt": "New template for {inputName}."})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if promptStore.Default() != "New template for {inputName}." {
		t.Errorf("default prompt not updated: %q", promptStore.Default())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/prompt", map[string]string{"prompt": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank prompt, got %d", rec.Code)
	}
}
