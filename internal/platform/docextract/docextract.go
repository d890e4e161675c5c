package docextract

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatTXT  = "txt"
)

const (
	ReasonUnreadable  = "unreadable"
	ReasonNoText      = "no_text"
	ReasonUnsupported = "unsupported"
	ReasonEmpty       = "empty"
)

type Document struct {
	Text   string `json:"text"`
	Pages  int    `json:"pages"`
	Format string `json:"format"`
}

type ExtractionError struct {
	Reason   string
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	msg := "extract " + e.Reason
	if e.Filename != "" {
		msg += " (" + e.Filename + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// Extract turns an uploaded document into plain text. The format is taken from
// the leading bytes when they are conclusive, otherwise from the extension or
// content type.
func Extract(filename, contentType string, data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, &ExtractionError{Reason: ReasonEmpty, Filename: filename}
	}
	switch Detect(filename, contentType, data) {
	case FormatPDF:
		return extractPDF(filename, data)
	case FormatDOCX:
		return extractDOCX(filename, data)
	case FormatTXT:
		return extractTXT(filename, data)
	default:
		return Document{}, &ExtractionError{
			Reason:   ReasonUnsupported,
			Filename: filename,
			Err:      fmt.Errorf("content type %q", contentType),
		}
	}
}

// Detect reports the document format, or "" when it is not one we read.
func Detect(filename, contentType string, data []byte) string {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX
	}
	ext := strings.ToLower(filepath.Ext(filename))
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case ext == ".pdf" || ct == "application/pdf":
		return FormatPDF
	case ext == ".docx" || ct == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FormatDOCX
	case ext == ".txt" || ext == ".md" || ct == "text/plain" || ct == "text/markdown":
		return FormatTXT
	}
	return ""
}

func extractPDF(filename string, data []byte) (doc Document, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			err = &ExtractionError{Reason: ReasonUnreadable, Filename: filename, Err: fmt.Errorf("pdf: %v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, &ExtractionError{Reason: ReasonUnreadable, Filename: filename, Err: err}
	}
	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return Document{}, &ExtractionError{Reason: ReasonNoText, Filename: filename}
	}
	return Document{Text: strings.Join(pages, "\n"), Pages: n, Format: FormatPDF}, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
	blankRuns        = regexp.MustCompile(`\n{3,}`)
)

func extractDOCX(filename string, data []byte) (Document, error) {
	d, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, &ExtractionError{Reason: ReasonUnreadable, Filename: filename, Err: err}
	}
	defer d.Close()

	text := stripDocxMarkup(d.Editable().GetContent())
	if text == "" {
		return Document{}, &ExtractionError{Reason: ReasonNoText, Filename: filename}
	}
	return Document{Text: text, Pages: 1, Format: FormatDOCX}, nil
}

func stripDocxMarkup(xml string) string {
	s := docxParagraphEnd.ReplaceAllStringFunc(xml, func(tag string) string {
		if strings.HasPrefix(tag, "<w:tab") {
			return "\t"
		}
		return "\n"
	})
	s = xmlTag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	s = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}

func extractTXT(filename string, data []byte) (Document, error) {
	if !utf8.Valid(data) {
		return Document{}, &ExtractionError{Reason: ReasonUnreadable, Filename: filename, Err: fmt.Errorf("text is not utf-8")}
	}
	text := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	if text == "" {
		return Document{}, &ExtractionError{Reason: ReasonEmpty, Filename: filename}
	}
	return Document{Text: text, Pages: 1, Format: FormatTXT}, nil
}
