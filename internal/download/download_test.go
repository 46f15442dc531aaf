package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

func testDownloader(t *testing.T) (*Downloader, string) {
	t.Helper()
	root := t.TempDir()
	return New(root, WithLimiter(rate.NewLimiter(rate.Inf, 1))), root
}

func pendingRecord(id, url string) paper.Record {
	year := 2023
	return paper.Record{
		ID:               id,
		Title:            "Test",
		Year:             &year,
		OpenAccess:       paper.OpenAccess{IsOA: true, PDFURL: url},
		ProcessingStatus: paper.StatusPendingDownload,
	}
}

func TestFetch(t *testing.T) {
	body := []byte("%PDF-1.5 fake pdf body")
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(body)
	}))
	defer server.Close()

	dl, root := testDownloader(t)
	path, err := dl.Fetch(context.Background(), pendingRecord("10.1/abc", server.URL))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if !strings.HasPrefix(gotUA, "AcademicLanguageAnalysis/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if want := filepath.Join(root, "2023", "10.1_abc.pdf"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved PDF: %v", err)
	}
	if string(saved) != string(body) {
		t.Error("saved PDF does not match response body")
	}
}

func TestFetch_MagicBytesWithoutContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("%PDF-1.4 body"))
	}))
	defer server.Close()

	dl, _ := testDownloader(t)
	if _, err := dl.Fetch(context.Background(), pendingRecord("10.1/m", server.URL)); err != nil {
		t.Errorf("Fetch() error = %v, %%PDF magic should be accepted", err)
	}
}

func TestFetch_RejectsNonPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>paywall landing page</html>"))
	}))
	defer server.Close()

	dl, _ := testDownloader(t)
	if _, err := dl.Fetch(context.Background(), pendingRecord("10.1/h", server.URL)); err == nil {
		t.Error("Fetch() should reject HTML responses")
	}
}

func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	dl, _ := testDownloader(t)
	if _, err := dl.Fetch(context.Background(), pendingRecord("10.1/g", server.URL)); err == nil {
		t.Error("Fetch() should fail on HTTP 410")
	}
}

func TestFetch_NoURL(t *testing.T) {
	dl, _ := testDownloader(t)
	if _, err := dl.Fetch(context.Background(), pendingRecord("10.1/n", "")); err == nil {
		t.Error("Fetch() should fail without a PDF URL")
	}
}

func TestFetch_UnknownYearDirectory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	dl, root := testDownloader(t)
	rec := pendingRecord("10.1/u", server.URL)
	rec.Year = nil

	path, err := dl.Fetch(context.Background(), rec)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if want := filepath.Join(root, "unknown"); !strings.HasPrefix(path, want) {
		t.Errorf("path = %q, want under %q", path, want)
	}
}

func TestSafeFileID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slashes and colons", "https://openalex.org/W1", "https___openalex.org_W1"},
		{"short id unchanged", "W1", "W1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFileID(tt.input); got != tt.want {
				t.Errorf("SafeFileID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeFileID_KeepsTrailingCharacters(t *testing.T) {
	long := strings.Repeat("a", 60) + "/tail"
	got := SafeFileID(long)
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	if !strings.HasSuffix(got, "_tail") {
		t.Errorf("SafeFileID() = %q, want trailing characters kept", got)
	}
}
