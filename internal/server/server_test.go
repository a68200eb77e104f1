package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rattil/rattil/internal/config"
	"github.com/rattil/rattil/internal/server"
	"github.com/rattil/rattil/pkg/grading"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ListenAddr: ":0",
			LogLevel:   config.LogInfo,
		},
		Grading: config.GradingConfig{
			PassThreshold: grading.DefaultPassThreshold,
			MaxTextBytes:  config.DefaultMaxTextBytes,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://app.example.com"},
		},
	}
}

func postGrade(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/grade", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type gradeResponse struct {
	Grade           float64              `json:"grade"`
	Passed          bool                 `json:"is_passed"`
	SimilarityScore float64              `json:"similarity_score"`
	ReferenceText   string               `json:"reference_text"`
	RecitedText     string               `json:"recited_text"`
	Words           []grading.TokenScore `json:"words"`
}

func TestGradePerfectRecitation(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	body := `{"recited_text": "بسم الله الرحمن الرحيم", "reference_text": "بسم الله الرحمن الرحيم"}`
	rec := postGrade(t, h, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body)
	}
	var resp gradeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Grade != 100.0 {
		t.Errorf("grade = %v, want 100", resp.Grade)
	}
	if !resp.Passed {
		t.Error("is_passed = false, want true")
	}
	if resp.SimilarityScore != 1.0 {
		t.Errorf("similarity_score = %v, want 1", resp.SimilarityScore)
	}
	if resp.ReferenceText != "بسم الله الرحمن الرحيم" {
		t.Errorf("reference_text not echoed: %q", resp.ReferenceText)
	}
	if len(resp.Words) != 4 {
		t.Errorf("len(words) = %d, want 4", len(resp.Words))
	}
}

func TestGradeCustomThreshold(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()

	// One of two reference words recited, short-length penalty applied:
	// grade 45. Fails at the default 70, passes at 40.
	body := `{"recited_text": "بسم", "reference_text": "بسم الله"}`

	rec := postGrade(t, h, body)
	var resp gradeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Grade != 45.0 {
		t.Fatalf("grade = %v, want 45", resp.Grade)
	}
	if resp.Passed {
		t.Error("is_passed = true under default threshold, want false")
	}

	rec = postGrade(t, h, `{"recited_text": "بسم", "reference_text": "بسم الله", "threshold": 40}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Passed {
		t.Error("is_passed = false at threshold 40, want true")
	}
}

func TestGradeEmptyReferenceRejected(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	for _, body := range []string{
		`{"recited_text": "بسم", "reference_text": ""}`,
		`{"recited_text": "بسم", "reference_text": "   "}`,
		`{"recited_text": "بسم"}`,
	} {
		rec := postGrade(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
			t.Fatalf("decode error body: %v", err)
		}
		if e.Error == "" {
			t.Errorf("body %s: empty error message", body)
		}
	}
}

func TestGradeMalformedJSON(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	for _, body := range []string{
		`{`,
		`{"recited_text": "بسم", "reference_text": "بسم", "bogus": true}`,
	} {
		rec := postGrade(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestGradeWrongContentType(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/grade",
		strings.NewReader(`{"recited_text": "بسم", "reference_text": "بسم"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGradeThresholdOutOfRange(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	for _, body := range []string{
		`{"recited_text": "بسم", "reference_text": "بسم", "threshold": -1}`,
		`{"recited_text": "بسم", "reference_text": "بسم", "threshold": 100.5}`,
	} {
		rec := postGrade(t, h, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestGradeBodyTooLarge(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Grading.MaxTextBytes = 64
	h := server.New(cfg).Handler()

	big := bytes.Repeat([]byte("ا"), 200)
	body := `{"recited_text": "` + string(big) + `", "reference_text": "بسم"}`
	rec := postGrade(t, h, body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestGradeMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	req := httptest.NewRequest(http.MethodGet, "/v1/grade", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	req := httptest.NewRequest(http.MethodOptions, "/v1/grade", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want allowed origin echoed", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST included", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/grade",
		strings.NewReader(`{"recited_text": "بسم", "reference_text": "بسم"}`))
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"*"}
	h := server.New(cfg).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/grade", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want origin echoed", got)
	}
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

func TestMetricsRoute(t *testing.T) {
	t.Parallel()

	h := server.New(testConfig()).Handler()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want %d", rec.Code, http.StatusOK)
	}
}
