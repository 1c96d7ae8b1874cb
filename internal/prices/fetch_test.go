package prices

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRenderClient_DirectGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		io.WriteString(w, samplePriceHTML)
	}))
	defer srv.Close()

	c := NewRenderClient(srv.URL, "", 5*time.Second)
	doc, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if doc.Find("table.oil-table tbody tr").Length() != len(FuelTypes) {
		t.Error("fetched document missing price table rows")
	}
}

func TestRenderClient_RenderService(t *testing.T) {
	const sourceURL = "https://example.com/rate/oil-price"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST to render service, got %s", r.Method)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode render payload: %v", err)
		}
		if payload["url"] != sourceURL {
			t.Errorf("render payload url = %q, want %q", payload["url"], sourceURL)
		}
		io.WriteString(w, samplePriceHTML)
	}))
	defer srv.Close()

	c := NewRenderClient(sourceURL, srv.URL, 5*time.Second)
	doc, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if doc.Find("div.current-date").Length() != 1 {
		t.Error("fetched document missing current-date element")
	}
}

func TestRenderClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRenderClient(srv.URL, "", 5*time.Second)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
