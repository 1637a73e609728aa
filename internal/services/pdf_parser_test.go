package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPDF_JoinsPagesWithSingleSpace(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	text, err := extractor.ExtractPDF(buildPDF("Jane Doe Backend Engineer", "Go PostgreSQL Kafka", "Led migration to Kubernetes"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Backend Engineer Go PostgreSQL Kafka Led migration to Kubernetes", text)
}

func TestExtractPDF_EmptyPagesContributeNothing(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	text, err := extractor.ExtractPDF(buildPDF("First page", "", "Third page"))
	require.NoError(t, err)
	assert.Equal(t, "First page Third page", text)
}

func TestExtractPDF_NoTextIsNotAnError(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	text, err := extractor.ExtractPDF(buildPDF(""))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractPDF_Failures(t *testing.T) {
	tests := []struct {
		name     string
		maxBytes int64
		maxPages int
		data     []byte
	}{
		{name: "not a pdf", maxBytes: 1 << 20, maxPages: 10, data: []byte("this is plainly not a PDF document at all")},
		{name: "truncated", maxBytes: 1 << 20, maxPages: 10, data: buildPDF("hello")[:120]},
		{name: "empty", maxBytes: 1 << 20, maxPages: 10, data: nil},
		{name: "too many pages", maxBytes: 1 << 20, maxPages: 2, data: buildPDF("a", "b", "c")},
		{name: "too large", maxBytes: 64, maxPages: 10, data: buildPDF("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewResumeExtractor(tt.maxBytes, tt.maxPages)

			_, err := extractor.ExtractPDF(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrResumeUnreadable), "got %v", err)

			var extractionErr *ExtractionError
			assert.True(t, errors.As(err, &extractionErr))
		})
	}
}

func TestExtract_SelectsFormat(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	tests := []struct {
		name string
		file ResumeFile
		want string
	}{
		{
			name: "pdf by content type",
			file: ResumeFile{Name: "cv", ContentType: "application/pdf", Data: buildPDF("Data Analyst", "SQL Tableau")},
			want: "Data Analyst SQL Tableau",
		},
		{
			name: "pdf by extension",
			file: ResumeFile{Name: "cv.PDF", ContentType: "application/octet-stream", Data: buildPDF("Python")},
			want: "Python",
		},
		{
			name: "pdf by magic bytes",
			file: ResumeFile{Name: "upload", Data: buildPDF("Sniffed")},
			want: "Sniffed",
		},
		{
			name: "docx",
			file: ResumeFile{Name: "cv.docx", Data: buildDOCX(t, "Jane Doe", "React &amp; TypeScript")},
			want: "Jane Doe React & TypeScript",
		},
		{
			name: "plain text",
			file: ResumeFile{Name: "cv.txt", ContentType: "text/plain; charset=utf-8", Data: []byte("  Go\n\n  gRPC\tDocker ")},
			want: "Go gRPC Docker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Extract(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Rejects(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	tests := []struct {
		name string
		file ResumeFile
	}{
		{name: "unsupported type", file: ResumeFile{Name: "photo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
		{name: "invalid utf8 text", file: ResumeFile{Name: "cv.txt", Data: []byte{0xff, 0xfe, 0xfd}}},
		{name: "docx without document", file: ResumeFile{Name: "cv.docx", Data: []byte("PK\x03\x04 broken")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.Extract(tt.file)
			assert.ErrorIs(t, err, ErrResumeUnreadable)
		})
	}
}

func TestExtractDOCX_ParagraphsStaySeparate(t *testing.T) {
	extractor := NewResumeExtractor(1<<20, 10)

	text, err := extractor.Extract(ResumeFile{
		Name: "cv.docx",
		Data: buildDOCX(t, "Skills", "Go", "Kubernetes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Skills Go Kubernetes", text)
}
