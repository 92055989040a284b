package catalog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const maxExtractChars = 12000

// ExtractDeckText pulls plain text from a PDF deck. Output is capped so
// prompts built from it stay within model limits.
func ExtractDeckText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("extract pdf text: no text content")
	}
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}
	return text, nil
}
