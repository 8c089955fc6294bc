// Package extractor turns a statement PDF into the raw text layer the
// parsers consume.
package extractor

import (
	"fmt"
	"strings"

	"extrasjson/internal/logging"
	"extrasjson/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Result is the extracted text layer of one document.
type Result struct {
	Text  string
	Pages int
}

// Extract reads the text layer of a PDF, preserving the top-to-bottom
// reading order row by row. The library panics on some malformed files;
// the panic is converted into an error so a bad document never takes down
// a batch.
func Extract(filePath string) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting text from %s: %v", filePath, r)
		}
	}()

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return Result{}, fmt.Errorf("%s has no pages", filePath)
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			log.WithError(rowErr).Warn("Skipping unreadable page",
				logging.Field{Key: "file", Value: filePath},
				logging.Field{Key: "page", Value: i})
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	text := strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return Result{}, &parsererror.DataExtractionError{
			Source:    filePath,
			FieldName: "text",
			Reason:    "no text layer, the file may be image-based",
		}
	}

	log.Debug("Extracted document text",
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "pages", Value: numPages})
	return Result{Text: text, Pages: numPages}, nil
}
