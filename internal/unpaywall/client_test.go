package unpaywall

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "team@example.org" {
			t.Errorf("email = %q, want team@example.org", got)
		}
		w.Write([]byte(`{"is_oa": true, "best_oa_location": {"url_for_pdf": "https://repo.example.org/x.pdf"}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithEmail("team@example.org"))
	p := client.Lookup(context.Background(), "10.1234/abc")

	if !p.Bool("is_oa") {
		t.Error("is_oa = false, want true")
	}
	if got := p.String("best_oa_location", "url_for_pdf"); got != "https://repo.example.org/x.pdf" {
		t.Errorf("url_for_pdf = %q", got)
	}
}

func TestLookup_NoEmailStillAttempts(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none without email", r.URL.RawQuery)
		}
		w.Write([]byte(`{"is_oa": false}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	client.Lookup(context.Background(), "10.1/x")
	if !requested {
		t.Error("lookup without email should still be attempted")
	}
}

func TestLookup_FailuresCollapseToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": true}`, http.StatusNotFound)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(WithBaseURL(server.URL))
			if p := client.Lookup(context.Background(), "10.1/x"); !p.IsEmpty() {
				t.Errorf("Lookup() = %v, want empty payload", p)
			}
		})
	}
}

func TestLookup_EmptyDOI(t *testing.T) {
	client := NewClient(WithBaseURL("http://127.0.0.1:0"))
	if p := client.Lookup(context.Background(), ""); !p.IsEmpty() {
		t.Error("Lookup(\"\") should return empty payload without a request")
	}
}
