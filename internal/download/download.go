// Package download retrieves open-access PDFs for papers awaiting download.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielcoblentz/academic-language-analysis/internal/paper"
)

const (
	// DefaultTimeout is the per-download HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// userAgent identifies the project to publishers.
	userAgent = "AcademicLanguageAnalysis/1.0 (research project)"

	// maxIDChars bounds the identifier portion of generated filenames.
	maxIDChars = 50
)

var pdfMagic = []byte("%PDF")

// Downloader fetches PDFs into a year-partitioned directory tree, pacing
// requests to one per second.
type Downloader struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	root       string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(d *Downloader) {
		d.httpClient = hc
	}
}

// WithLimiter overrides the default one-per-second pacing (for tests).
func WithLimiter(l *rate.Limiter) Option {
	return func(d *Downloader) {
		d.limiter = l
	}
}

// New creates a Downloader that writes PDFs under root.
func New(root string, opts ...Option) *Downloader {
	d := &Downloader{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		root:       root,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Fetch downloads the paper's PDF and returns the local path it was saved
// to. Responses that are not PDFs (HTML landing pages, error bodies) are
// rejected.
func (d *Downloader) Fetch(ctx context.Context, rec paper.Record) (string, error) {
	if rec.OpenAccess.PDFURL == "" {
		return "", fmt.Errorf("paper %s has no PDF URL", rec.ID)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.OpenAccess.PDFURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("downloading PDF: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading PDF body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "pdf") && !bytes.HasPrefix(body, pdfMagic) {
		return "", fmt.Errorf("response is not a PDF (content-type %q)", contentType)
	}

	path := d.savePath(rec)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating PDF directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("writing PDF: %w", err)
	}

	return path, nil
}

// savePath builds root/<year>/<safe_id>.pdf, with "unknown" for papers
// missing a publication year.
func (d *Downloader) savePath(rec paper.Record) string {
	year := "unknown"
	if rec.Year != nil {
		year = strconv.Itoa(*rec.Year)
	}
	return filepath.Join(d.root, year, SafeFileID(rec.ID)+".pdf")
}

// SafeFileID turns a canonical ID into a filesystem-safe name, keeping the
// trailing characters since ID prefixes (resolver hosts, "auto:") carry the
// least entropy.
func SafeFileID(id string) string {
	safe := strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(id)
	runes := []rune(safe)
	if len(runes) > maxIDChars {
		runes = runes[len(runes)-maxIDChars:]
	}
	return string(runes)
}
