package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"

	"ragbot/internal/domain/entity"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// TextExtractor converts an uploaded file plus its declared type into plain
// text. A file its format handler cannot parse yields ErrExtraction with no
// partial text; a type with no handler yields ErrUnsupportedFormat.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (te *TextExtractor) Extract(data []byte, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return te.extractPDF(data)
	case "docx", "doc":
		return te.extractDOCX(data)
	case "txt":
		return te.extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, fileType)
	}
}

// extractPDF concatenates per-page text with newline separators.
func (te *TextExtractor) extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}

	var fullText strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		fullText.WriteString(text)
		fullText.WriteString("\n")
	}

	return strings.TrimSpace(fullText.String()), nil
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// extractDOCX concatenates paragraph text from the document part of the
// archive.
func (te *TextExtractor) extractDOCX(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}

	f, err := reader.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("%w: missing document part", entity.ErrExtraction)
	}
	defer f.Close()

	var doc documentXML
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}

	var text strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			text.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, t := range run.Text {
				text.WriteString(t.Content)
			}
		}
	}

	return strings.TrimSpace(text.String()), nil
}

// extractTXT tries encodings in order: UTF-8, Latin-1, CP1252, ISO-8859-1.
// If every decode attempt fails the bytes are decoded with invalid-byte
// substitution rather than failing the upload.
func (te *TextExtractor) extractTXT(data []byte) (string, error) {
	if utf8.Valid(data) {
		return strings.TrimSpace(string(data)), nil
	}

	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return strings.TrimSpace(string(decoded)), nil
	}

	return strings.TrimSpace(strings.ToValidUTF8(string(data), "�")), nil
}
