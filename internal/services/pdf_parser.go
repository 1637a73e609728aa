package services

import (
	"archive/zip"
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
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// ResumeFile is an uploaded résumé. It lives for one request and is never stored.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ResumeExtractor interface {
	Extract(file ResumeFile) (string, error)
	ExtractPDF(data []byte) (string, error)
}

type resumeExtractor struct {
	maxBytes int64
	maxPages int
}

func NewResumeExtractor(maxBytes int64, maxPages int) ResumeExtractor {
	return &resumeExtractor{
		maxBytes: maxBytes,
		maxPages: maxPages,
	}
}

// Extract picks a parser from the content type, falling back to the file extension.
func (p *resumeExtractor) Extract(file ResumeFile) (string, error) {
	if int64(len(file.Data)) > p.maxBytes {
		return "", &ExtractionError{
			Format: "file",
			Reason: fmt.Sprintf("file is %d bytes, limit is %d", len(file.Data), p.maxBytes),
		}
	}

	switch detectFormat(file) {
	case mimePDF:
		return p.ExtractPDF(file.Data)
	case mimeDOCX:
		return p.extractDOCX(file.Data)
	case mimeText:
		if !utf8.Valid(file.Data) {
			return "", &ExtractionError{Format: "text", Reason: "file is not valid UTF-8"}
		}
		return normalizeWhitespace(string(file.Data)), nil
	default:
		return "", &ExtractionError{
			Format: "file",
			Reason: fmt.Sprintf("unsupported file type %q", file.ContentType),
		}
	}
}

// ExtractPDF joins the text of every page with a single space. Pages without
// text contribute nothing.
func (p *resumeExtractor) ExtractPDF(data []byte) (text string, err error) {
	if int64(len(data)) > p.maxBytes {
		return "", &ExtractionError{Format: "pdf", Reason: "file exceeds size limit"}
	}

	// the parser panics on some corrupt inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: "pdf", Reason: "corrupt document", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Reason: "failed to open PDF", Cause: err}
	}

	totalPage := reader.NumPage()
	if totalPage > p.maxPages {
		return "", &ExtractionError{
			Format: "pdf",
			Reason: fmt.Sprintf("document has %d pages, limit is %d", totalPage, p.maxPages),
		}
	}

	pages := make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{
				Format: "pdf",
				Reason: fmt.Sprintf("failed to read page %d", pageIndex),
				Cause:  err,
			}
		}

		if pageText = normalizeWhitespace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}

	return strings.Join(pages, " "), nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func (p *resumeExtractor) extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Reason: "failed to open document", Cause: err}
	}
	defer doc.Close()

	body := doc.Editable().GetContent()
	body = strings.ReplaceAll(body, "</w:p>", " ")
	body = xmlTag.ReplaceAllString(body, "")

	return normalizeWhitespace(html.UnescapeString(body)), nil
}

func detectFormat(file ResumeFile) string {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	switch contentType {
	case mimePDF, mimeDOCX, mimeText:
		return contentType
	}

	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt", ".md":
		return mimeText
	}

	// sniff magic bytes when neither header nor name helps
	switch {
	case bytes.HasPrefix(file.Data, []byte("%PDF-")):
		return mimePDF
	case bytes.HasPrefix(file.Data, []byte("PK\x03\x04")) && isDOCX(file.Data):
		return mimeDOCX
	}
	return contentType
}

func isDOCX(data []byte) bool {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
