// Package document converts uploaded resume files into plain text.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Accepted media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrUnreadableDocument   = errors.New("unreadable document")
)

// Extractor turns document bytes of a declared media type into UTF-8 text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mediaType string) (string, error)
}

// TextExtractor reads PDF and Word documents.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Normalize lower-cases a media type and drops its parameters.
func Normalize(mediaType string) string {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mt
}

// Supported reports whether mediaType can be extracted.
func Supported(mediaType string) bool {
	switch Normalize(mediaType) {
	case MediaTypePDF, MediaTypeDOC, MediaTypeDOCX:
		return true
	}
	return false
}

// Detect sniffs the media type of data.
func Detect(data []byte) string {
	return Normalize(mimetype.Detect(data).String())
}

// Extract returns ErrUnsupportedMediaType for types other than PDF and Word,
// and ErrUnreadableDocument when parsing fails or yields only whitespace.
func (e *TextExtractor) Extract(ctx context.Context, data []byte, mediaType string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mt := Normalize(mediaType)
	if !Supported(mt) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: parser panic: %v", ErrUnreadableDocument, r)
		}
	}()

	switch mt {
	case MediaTypePDF:
		text, err = extractPDFText(data)
	default:
		// Legacy .doc uploads are only readable when they are OOXML underneath.
		text, err = extractDocxText(data)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text found", ErrUnreadableDocument)
	}
	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return xmlToText(doc.Editable().GetContent()), nil
}

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	tabRe          = regexp.MustCompile(`<w:tab\s*/>`)
	tagRe          = regexp.MustCompile(`<[^>]*>`)
)

// xmlToText flattens WordprocessingML into lines, one per paragraph.
func xmlToText(content string) string {
	content = paragraphEndRe.ReplaceAllString(content, "\n")
	content = tabRe.ReplaceAllString(content, "\t")
	content = tagRe.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
