package formats

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// ExtractPDF pulls the text layer out of a PDF, page by page. Pages that
// fail to decode are skipped; the document fails only when no page yields
// text and at least one page errored.
func ExtractPDF(name string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", name, err)
	}

	var b strings.Builder
	var pageErr error
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pageErr = err
			continue
		}
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	if b.Len() == 0 && pageErr != nil {
		return "", fmt.Errorf("extract pdf %s: %w", name, pageErr)
	}
	return b.String(), nil
}
