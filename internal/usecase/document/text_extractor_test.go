package document

import (
	"archive/zip"
	"bytes"
	"testing"

	"ragbot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestDOCX builds a minimal valid DOCX archive in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	types, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = types.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)

	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractUnsupportedFormat(t *testing.T) {
	te := NewTextExtractor()

	_, err := te.Extract([]byte("payload"), "exe")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestExtractTXTUTF8(t *testing.T) {
	te := NewTextExtractor()

	text, err := te.Extract([]byte("  hello world\n"), "txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractTXTLatin1(t *testing.T) {
	te := NewTextExtractor()

	// "café" encoded as Latin-1; 0xE9 is not valid UTF-8 on its own
	text, err := te.Extract([]byte{'c', 'a', 'f', 0xE9}, "txt")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestExtractDOCXParagraphs(t *testing.T) {
	te := NewTextExtractor()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body>
		<w:p><w:r><w:t>Hello</w:t><w:t> World</w:t></w:r></w:p>
		<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
	</w:body>
</w:document>`
	content := createTestDOCX(t, docXML)

	text, err := te.Extract(content, "docx")
	require.NoError(t, err)
	assert.Equal(t, "Hello World\nSecond paragraph", text)
}

func TestExtractDOCXInvalidArchive(t *testing.T) {
	te := NewTextExtractor()

	_, err := te.Extract([]byte("definitely not a zip archive"), "docx")
	assert.ErrorIs(t, err, entity.ErrExtraction)
}

func TestExtractDocTreatedAsDOCX(t *testing.T) {
	te := NewTextExtractor()

	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body><w:p><w:r><w:t>legacy extension</w:t></w:r></w:p></w:body>
</w:document>`
	content := createTestDOCX(t, docXML)

	text, err := te.Extract(content, "doc")
	require.NoError(t, err)
	assert.Equal(t, "legacy extension", text)
}
