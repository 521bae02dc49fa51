package api

import (
	"net/http"
	"testing"
)

func TestCORSHeaders(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	h := NewHandler(deps)

	rr := doRequest(t, h, http.MethodGet, "/notes", "")
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
		t.Errorf("Allow-Headers = %q, want Content-Type", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	h := NewHandler(deps)

	rr := doRequest(t, h, http.MethodOptions, "/notes", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty preflight body, got %q", rr.Body.String())
	}
	methods := rr.Header().Get("Access-Control-Allow-Methods")
	if methods == "" {
		t.Error("expected Allow-Methods on preflight response")
	}
}

func TestCORSHeadersOnError(t *testing.T) {
	deps, _, _ := newTestDeps(t)
	h := NewHandler(deps)

	rr := doRequest(t, h, http.MethodGet, "/notes/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin on error = %q, want *", got)
	}
}
