package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/compile"
	"github.com/jonathan/resume-builder/internal/form"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// mockGenerator returns canned generation results
type mockGenerator struct {
	err error
}

func (m *mockGenerator) GenerateSummary(_ context.Context, req llm.SummaryRequest) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if req.Role == "" || req.JobDescription == "" {
		return "", &llm.InputError{Message: "role and job description are required"}
	}
	return "Seasoned " + req.Role + ".", nil
}

func (m *mockGenerator) GenerateBullets(_ context.Context, req llm.BulletsRequest) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Led " + req.JobTitle + " work"}, nil
}

func (m *mockGenerator) GenerateProjectBullets(_ context.Context, req llm.ProjectBulletsRequest) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Built " + req.Title}, nil
}

func (m *mockGenerator) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Go", "Kubernetes"}, nil
}

// mockCompiler returns a fixed artifact or error
type mockCompiler struct {
	artifact *compile.Artifact
	err      error
}

func (m *mockCompiler) Name() string { return "mock" }

func (m *mockCompiler) Compile(_ context.Context, _ string) (*compile.Artifact, error) {
	return m.artifact, m.err
}

func newTestServer(t *testing.T, gen *mockGenerator, compiler compile.Compiler) http.Handler {
	t.Helper()
	cfg := Config{
		Port:      8080,
		Layout:    rendering.DefaultOptions(),
		Compiler:  compiler,
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	if gen != nil {
		cfg.Generator = gen
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	t.Cleanup(s.rateLimiter.Stop)
	return s.Handler()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}

func TestNew_InvalidPort(t *testing.T) {
	if _, err := New(Config{Port: 0}); err == nil {
		t.Error("expected error for port 0")
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t, nil, &mockCompiler{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]any
	decode(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%v'", resp["status"])
	}
	if resp["generation"] != false {
		t.Errorf("expected generation false without a generator, got %v", resp["generation"])
	}
	if resp["compiler"] != "mock" {
		t.Errorf("expected compiler 'mock', got %v", resp["compiler"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	h := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected request ID to be echoed, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/generate-latex", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestCORSAllowedOrigins(t *testing.T) {
	s, err := New(Config{
		Port:           8080,
		AllowedOrigins: []string{"https://app.example.com"},
		RateLimit:      &ratelimit.Config{Enabled: false},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.rateLimiter.Stop()
	h := s.Handler()

	for origin, want := range map[string]string{
		"https://app.example.com":  "https://app.example.com",
		"https://evil.example.com": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("origin %s: expected %q, got %q", origin, want, got)
		}
	}
}

func TestGenerateLatex(t *testing.T) {
	h := newTestServer(t, nil, nil)

	w := post(t, h, "/api/generate-latex", `{
		"personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com"},
		"skills": {"technical": ["Go", "C#"]},
		"projects": [{"title": "App", "technologies": "Go, React"}]
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp GenerateLatexResponse
	decode(t, w, &resp)
	if !strings.HasPrefix(resp.LaTeX, `\documentclass`) {
		t.Error("expected LaTeX document")
	}
	if !strings.Contains(resp.LaTeX, `C\#`) {
		t.Error("expected escaped skill")
	}
	if !strings.Contains(resp.LaTeX, "Go, React") {
		t.Error("expected technologies string to be normalized")
	}
}

func TestGenerateLatex_MissingName(t *testing.T) {
	h := newTestServer(t, nil, nil)

	for _, body := range []string{`{}`, `{"personalInfo": {"fullName": "  "}}`} {
		w := post(t, h, "/api/generate-latex", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for %s, got %d", body, w.Code)
		}
		var resp map[string]string
		decode(t, w, &resp)
		if resp["error"] != "Personal information is required" {
			t.Errorf("unexpected error message %q", resp["error"])
		}
	}
}

func TestGenerateLatex_InvalidBody(t *testing.T) {
	h := newTestServer(t, nil, nil)

	w := post(t, h, "/api/generate-latex", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	w = post(t, h, "/api/generate-latex", `{"personalInfo": {"fullName": "Jane", "email": "nope"}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for invalid email, got %d", w.Code)
	}
}

func TestCompilePDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	h := newTestServer(t, nil, &mockCompiler{artifact: &compile.Artifact{PDF: pdf, Pages: 1}})

	w := post(t, h, "/api/compile-pdf", `{"latex": "\\documentclass{article}"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if w.Header().Get("X-PDF-Pages") != "1" {
		t.Errorf("expected page count header, got %q", w.Header().Get("X-PDF-Pages"))
	}
	if !bytes.Equal(w.Body.Bytes(), pdf) {
		t.Error("expected PDF bytes in body")
	}
}

func TestCompilePDF_Failure(t *testing.T) {
	latex := `\documentclass{article}\begin{document}x\end{document}`
	h := newTestServer(t, nil, &mockCompiler{err: &compile.CompilationError{Message: "status 500"}})

	body, _ := json.Marshal(CompileRequest{LaTeX: latex})
	w := post(t, h, "/api/compile-pdf", string(body))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	var resp CompileFailureResponse
	decode(t, w, &resp)
	if resp.LatexLength != len(latex) {
		t.Errorf("expected latexLength %d, got %d", len(latex), resp.LatexLength)
	}
	if resp.Error == "" || resp.Suggestion == "" || !strings.Contains(resp.Details, "status 500") {
		t.Errorf("incomplete failure response: %+v", resp)
	}
}

func TestCompilePDF_MissingLatex(t *testing.T) {
	h := newTestServer(t, nil, &mockCompiler{})

	w := post(t, h, "/api/compile-pdf", `{"latex": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCompilePDF_NoCompiler(t *testing.T) {
	h := newTestServer(t, nil, nil)

	w := post(t, h, "/api/compile-pdf", `{"latex": "x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestAIEndpoints(t *testing.T) {
	h := newTestServer(t, &mockGenerator{}, nil)

	tests := []struct {
		path string
		body string
		key  string
	}{
		{"/api/ai/generate-summary", `{"role": "SRE", "jobDescription": "Run things"}`, "summary"},
		{"/api/ai/generate-bullets", `{"jobTitle": "SRE", "experienceDescription": "Ran things"}`, "bulletPoints"},
		{"/api/ai/generate-project-bullets", `{"projectTitle": "App", "projectDescription": "An app"}`, "bulletPoints"},
		{"/api/ai/extract-keywords", `{"jobDescription": "Go and Kubernetes"}`, "keywords"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := post(t, h, tt.path, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			var resp map[string]any
			decode(t, w, &resp)
			if _, ok := resp[tt.key]; !ok {
				t.Errorf("expected %q in response, got %v", tt.key, resp)
			}
		})
	}
}

func TestAIEndpoints_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newTestServer(t, nil, nil)
		w := post(t, h, "/api/ai/extract-keywords", `{"jobDescription": "x"}`)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", w.Code)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		h := newTestServer(t, &mockGenerator{}, nil)
		w := post(t, h, "/api/ai/generate-summary", `{"role": "SRE"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("provider failure", func(t *testing.T) {
		h := newTestServer(t, &mockGenerator{err: &llm.GenerationError{Task: "keywords", Cause: errors.New("quota")}}, nil)
		w := post(t, h, "/api/ai/extract-keywords", `{"jobDescription": "x"}`)
		if w.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", w.Code)
		}
		var resp map[string]string
		decode(t, w, &resp)
		if resp["error"] != "Failed to extract keywords. Please try again." {
			t.Errorf("expected public error message, got %q", resp["error"])
		}
	})
}

func TestPatchRecord(t *testing.T) {
	h := newTestServer(t, nil, nil)

	w := post(t, h, "/api/records/patch", `{
		"patch": {"personalInfo": {"fullName": "Jane", "email": "jane@example.com"}},
		"action": "goto",
		"step": "basic"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PatchResponse
	decode(t, w, &resp)
	if resp.State.Step != form.StepBasic {
		t.Errorf("expected step basic, got %s", resp.State.Step)
	}
	if !resp.CanAdvance {
		t.Error("expected basic step to be complete")
	}

	body, _ := json.Marshal(PatchRequest{State: &resp.State, Action: ActionNext})
	w = post(t, h, "/api/records/patch", string(body))
	decode(t, w, &resp)
	if resp.State.Step != form.StepTarget {
		t.Errorf("expected step target, got %s", resp.State.Step)
	}
	if resp.State.Record.PersonalInfo.FullName != "Jane" {
		t.Error("expected record to carry over")
	}
}

func TestPatchRecord_Errors(t *testing.T) {
	h := newTestServer(t, nil, nil)

	tests := map[string]string{
		"incomplete step": `{"state": {"step": "basic"}, "action": "next"}`,
		"unknown step":    `{"action": "goto", "step": "nowhere"}`,
		"unknown action":  `{"action": "jump"}`,
		"empty patch":     `{}`,
		"state only":      `{"state": {"step": "skills"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := post(t, h, "/api/records/patch", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

const enhanceBody = `{
	"record": {
		"personalInfo": {"fullName": "Jane"},
		"targetRole": {"role": "SRE", "jobDescription": "Run Go services"},
		"experience": [{"jobTitle": "Engineer", "description": "Ran services"}]
	}
}`

func TestEnhanceRecord(t *testing.T) {
	h := newTestServer(t, &mockGenerator{}, nil)

	w := post(t, h, "/api/records/enhance", enhanceBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp EnhanceResponse
	decode(t, w, &resp)
	if resp.Record.TargetRole.GeneratedSummary != "Seasoned SRE." {
		t.Errorf("unexpected summary %q", resp.Record.TargetRole.GeneratedSummary)
	}
	if len(resp.Record.Experience[0].BulletPoints) != 1 {
		t.Errorf("expected generated bullets, got %v", resp.Record.Experience[0].BulletPoints)
	}
	if len(resp.Events) != 3 {
		t.Errorf("expected 3 progress events, got %d", len(resp.Events))
	}
}

func TestEnhanceRecord_MissingRecord(t *testing.T) {
	h := newTestServer(t, &mockGenerator{}, nil)

	w := post(t, h, "/api/records/enhance", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestEnhanceRecordStream(t *testing.T) {
	h := newTestServer(t, &mockGenerator{}, nil)

	w := post(t, h, "/api/records/enhance/stream", enhanceBody)
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream, got %q", ct)
	}

	var events []string
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	if len(events) != 4 || events[len(events)-1] != "complete" {
		t.Errorf("expected 3 progress events then complete, got %v", events)
	}
}
