// Package pdftext extracts plain text from downloaded PDFs.
package pdftext

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts text from the first maxPages pages of a PDF.
// A maxPages of 0 or less extracts every page. Pages that fail to decode
// are skipped rather than failing the document.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// ExtractToSidecar extracts a PDF's full text and writes it next to the PDF
// with a .txt extension. It returns the sidecar path and the number of
// extracted characters.
func ExtractToSidecar(pdfPath string) (string, int, error) {
	text, err := ExtractText(pdfPath, 0)
	if err != nil {
		return "", 0, fmt.Errorf("extracting %s: %w", pdfPath, err)
	}

	sidecar := strings.TrimSuffix(pdfPath, ".pdf") + ".txt"
	if err := os.WriteFile(sidecar, []byte(text), 0644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", sidecar, err)
	}

	return sidecar, len(text), nil
}
