package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"supportbot/internal/domain"
)

type stubPipeline struct {
	result    domain.QueryResult
	healthErr error
	lastQuery string
}

func (p *stubPipeline) HandleQuery(ctx context.Context, query string) domain.QueryResult {
	p.lastQuery = query
	return p.result
}

func (p *stubPipeline) Health(ctx context.Context) error {
	return p.healthErr
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	pipeline := &stubPipeline{}
	s := New(pipeline, nil)

	w := doRequest(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", body["status"])
	}
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	pipeline := &stubPipeline{healthErr: errors.New("knowledge base is empty")}
	s := New(pipeline, nil)

	w := doRequest(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "knowledge base is empty") {
		t.Errorf("body = %s, should carry the health error", w.Body.String())
	}
}

func TestQueryEndpoint(t *testing.T) {
	pipeline := &stubPipeline{
		result: domain.QueryResult{
			Intent:    domain.IntentFAQ,
			Sentiment: domain.DefaultSentiment(),
			Context: []domain.RetrievedPassage{
				{Rank: 1, Source: "password_reset.txt", Snippet: "Open Settings...", Relevance: 92.5, Distance: 0.075},
			},
			Response: "Open Settings and choose Reset Password.",
			Status:   domain.StatusSuccess,
		},
	}
	s := New(pipeline, nil)

	w := doRequest(t, s, http.MethodPost, "/api/query", `{"text": "how do I reset my password"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/query status = %d, want 200", w.Code)
	}
	if pipeline.lastQuery != "how do I reset my password" {
		t.Errorf("pipeline received %q", pipeline.lastQuery)
	}

	var result domain.QueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.Intent != domain.IntentFAQ {
		t.Errorf("intent = %s, want faq", result.Intent)
	}
	if result.Status != domain.StatusSuccess {
		t.Errorf("status = %s, want success", result.Status)
	}
	if len(result.Context) != 1 || result.Context[0].Source != "password_reset.txt" {
		t.Errorf("context = %+v", result.Context)
	}
}

func TestQueryEndpointBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "not json"},
		{"missing text", `{"other": "field"}`},
		{"empty text", `{"text": ""}`},
		{"whitespace text", `{"text": "   "}`},
	}

	s := New(&stubPipeline{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/query", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	s := New(&stubPipeline{}, nil)

	w := doRequest(t, s, http.MethodOptions, "/api/query", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestQueryEndpointErrorResultStays200(t *testing.T) {
	// A failed generation is still a handled query; the status lives in
	// the body, not the HTTP code.
	pipeline := &stubPipeline{
		result: domain.QueryResult{
			Intent:    domain.IntentUnknown,
			Sentiment: domain.DefaultSentiment(),
			Response:  "Error: could not reach the generation service. Please try again later.",
			Status:    domain.StatusError,
		},
	}
	s := New(pipeline, nil)

	w := doRequest(t, s, http.MethodPost, "/api/query", `{"text": "hello"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var result domain.QueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if result.Status != domain.StatusError {
		t.Errorf("body status = %s, want error", result.Status)
	}
}
