package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resume-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a minimal PDF with one line of Helvetica text per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	var kids []string
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	files := map[string]string{
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadDocumentPDF(t *testing.T) {
	path := writeFile(t, "resume.pdf", buildPDF("Senior Go Developer", "Kubernetes and PostgreSQL"))

	pages, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Index)
	assert.Contains(t, pages[0].Text, "Senior Go Developer")
	assert.Equal(t, 2, pages[1].Index)
	assert.Contains(t, pages[1].Text, "Kubernetes")
}

func TestLoadDocumentMalformedPDF(t *testing.T) {
	path := writeFile(t, "broken.pdf", []byte("this is not a pdf"))

	_, err := LoadDocument(path)
	assert.Error(t, err)
}

func TestLoadDocumentDOCX(t *testing.T) {
	path := writeFile(t, "resume.docx", buildDOCX(t, "Jane Doe", "Go &amp; Python engineer"))

	pages, err := LoadDocument(path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Contains(t, pages[0].Text, "Jane Doe")
	assert.Contains(t, pages[0].Text, "Go & Python engineer")
	assert.NotContains(t, pages[0].Text, "<w:")
}

func TestLoadDocumentText(t *testing.T) {
	path := writeFile(t, "resume.TXT", []byte("plain text resume"))

	pages, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, []models.PageText{{Index: 1, Text: "plain text resume"}}, pages)
}

func TestLoadDocumentUnsupported(t *testing.T) {
	path := writeFile(t, "resume.xlsx", []byte("x"))

	_, err := LoadDocument(path)
	assert.ErrorContains(t, err, "unsupported file format")
}

func TestChunkPages(t *testing.T) {
	words := make([]string, 0, 600)
	for i := 0; i < 600; i++ {
		words = append(words, fmt.Sprintf("skill%03d", i))
	}
	page := models.PageText{Index: 3, Text: strings.Join(words, " ")}

	chunks, err := ChunkPages([]models.PageText{page, {Index: 4, Text: "  \n "}}, 1000, 100)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 4)

	for i, c := range chunks {
		assert.Equal(t, 3, c.PageNumber)
		assert.Equal(t, i+1, c.ChunkID)
		assert.LessOrEqual(t, len([]rune(c.Content)), 1000)
		require.LessOrEqual(t, c.Offset+len(c.Content), len(page.Text))
		assert.Equal(t, c.Content, page.Text[c.Offset:c.Offset+len(c.Content)])
		if i > 0 {
			assert.Greater(t, c.Offset, chunks[i-1].Offset)
		}
	}

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(last.Content, "skill599"))
}

func TestChunkPagesShortPage(t *testing.T) {
	chunks, err := ChunkPages([]models.PageText{{Index: 1, Text: "Data Scientist"}}, 1000, 100)
	require.NoError(t, err)
	assert.Equal(t, []models.Chunk{{Content: "Data Scientist", PageNumber: 1, ChunkID: 1}}, chunks)
}

func TestChunkPagesRejectsBadParameters(t *testing.T) {
	_, err := ChunkPages(nil, 0, 0)
	assert.Error(t, err)

	_, err = ChunkPages(nil, 100, 100)
	assert.Error(t, err)
}

func TestStage(t *testing.T) {
	path, release, err := Stage(strings.NewReader("pdf bytes"), "My Resume.PDF")
	require.NoError(t, err)

	assert.Equal(t, ".pdf", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	release()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// second release is a no-op
	release()
}

func TestStageUniquePaths(t *testing.T) {
	a, releaseA, err := Stage(strings.NewReader("a"), "resume.pdf")
	require.NoError(t, err)
	defer releaseA()
	b, releaseB, err := Stage(strings.NewReader("b"), "resume.pdf")
	require.NoError(t, err)
	defer releaseB()

	assert.NotEqual(t, a, b)
}

func TestPageChunksMarksUnlocatedOffset(t *testing.T) {
	page := models.PageText{Index: 2, Text: "alpha beta gamma"}

	chunks := pageChunks(page, []string{"alpha", "alpha  beta", "gamma"})
	require.Len(t, chunks, 3)

	assert.Equal(t, 0, chunks[0].Offset)
	assert.Equal(t, -1, chunks[1].Offset)
	assert.Equal(t, 11, chunks[2].Offset)
	for i, c := range chunks {
		assert.Equal(t, 2, c.PageNumber)
		assert.Equal(t, i+1, c.ChunkID)
	}
}
