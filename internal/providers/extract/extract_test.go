package extract

import (
	"archive/zip"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/utils"
	"golang.org/x/text/encoding/charmap"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Müller GmbH, Zürich</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Senior Backend </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, Postgres</w:t></w:r></w:p>
  </w:body>
</w:document>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`

func writeDocx(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "resume.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`))
	require.NoError(t, err)
	w, err = zw.Create("word/_rels/document.xml.rels")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentRels))
	require.NoError(t, err)
	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func TestResumeKind(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantExt string
	}{
		{"pdf", "cv.pdf", ".pdf"},
		{"upper case", "CV.PDF", ".pdf"},
		{"docx", "cv.docx", ".docx"},
		{"doc", "cv.doc", ".doc"},
		{"txt", "cv.txt", ""},
		{"no extension", "resume", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ResumeKind(tt.file)
			if tt.wantExt == "" {
				assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, k.Ext)
		})
	}
}

func TestExtractDocx(t *testing.T) {
	path := writeDocx(t, t.TempDir())
	kind, err := ResumeKind(path)
	require.NoError(t, err)
	require.NoError(t, kind.Verify(path))

	text, err := New().Extract(context.Background(), path, kind)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nMüller GmbH, Zürich\nSenior Backend Engineer\nSkills: Go, Postgres", text)
}

type wordPiece struct {
	text       string
	compressed bool
}

// buildWordDoc lays pieces out as a minimal WordDocument stream and a table
// stream holding a Clx with one property modifier ahead of the piece table.
func buildWordDoc(t *testing.T, ccp int, flags uint16, pieces ...wordPiece) (wordDoc, table []byte) {
	t.Helper()
	wordDoc = make([]byte, 0x200)
	binary.LittleEndian.PutUint16(wordDoc[fibIdent:], wordIdent)
	binary.LittleEndian.PutUint16(wordDoc[fibFlags:], flags)

	var (
		cps   = []uint32{0}
		pcds  []byte
		total int
	)
	for _, p := range pieces {
		var (
			data  []byte
			fc    uint32
			count int
		)
		if p.compressed {
			enc, err := charmap.Windows1252.NewEncoder().String(p.text)
			require.NoError(t, err)
			data, count = []byte(enc), len(enc)
			fc = uint32(len(wordDoc)*2) | pieceCompress
		} else {
			units := utf16.Encode([]rune(p.text))
			for _, u := range units {
				data = binary.LittleEndian.AppendUint16(data, u)
			}
			count = len(units)
			fc = uint32(len(wordDoc))
		}
		wordDoc = append(wordDoc, data...)
		total += count
		cps = append(cps, uint32(total))

		pcd := make([]byte, 8)
		binary.LittleEndian.PutUint32(pcd[2:], fc)
		pcds = append(pcds, pcd...)
	}
	if ccp < 0 {
		ccp = total
	}
	binary.LittleEndian.PutUint32(wordDoc[fibCcp:], uint32(ccp))

	var plc []byte
	for _, cp := range cps {
		plc = binary.LittleEndian.AppendUint32(plc, cp)
	}
	plc = append(plc, pcds...)

	table = []byte{0x01, 0x02, 0x00, 0xAA, 0xBB, 0x02}
	table = binary.LittleEndian.AppendUint32(table, uint32(len(plc)))
	table = append(table, plc...)
	binary.LittleEndian.PutUint32(wordDoc[fibFcClx:], 0)
	binary.LittleEndian.PutUint32(wordDoc[fibLcbClx:], uint32(len(table)))
	return wordDoc, table
}

func TestWordDocumentText(t *testing.T) {
	tests := []struct {
		name   string
		ccp    int
		pieces []wordPiece
		want   string
	}{
		{
			name:   "utf-16 piece keeps non-ascii text",
			ccp:    -1,
			pieces: []wordPiece{{text: "Müller GmbH, Zürich\rSenior Engineer\r"}},
			want:   "Müller GmbH, Zürich\nSenior Engineer\n",
		},
		{
			name:   "compressed cp1252 piece",
			ccp:    -1,
			pieces: []wordPiece{{text: "Café résumé – Björk\r", compressed: true}},
			want:   "Café résumé – Björk\n",
		},
		{
			name: "mixed pieces",
			ccp:  -1,
			pieces: []wordPiece{
				{text: "Jane Doe\r", compressed: true},
				{text: "Łódź, Polska\r"},
			},
			want: "Jane Doe\nŁódź, Polska\n",
		},
		{
			name:   "field instruction dropped, result kept",
			ccp:    -1,
			pieces: []wordPiece{{text: "Mail: \x13 HYPERLINK \"mailto:jane@example.com\" \x14jane@example.com\x15\r"}},
			want:   "Mail: jane@example.com\n",
		},
		{
			name:   "table cells and line breaks",
			ccp:    -1,
			pieces: []wordPiece{{text: "Go\x07Postgres\x07\x07line\x0bbreak"}},
			want:   "Go\tPostgres\t\tline\nbreak",
		},
		{
			name: "text past the main story is ignored",
			ccp:  len("Main body\r"),
			pieces: []wordPiece{
				{text: "Main body\r", compressed: true},
				{text: "Footnote text\r", compressed: true},
			},
			want: "Main body\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wordDoc, table := buildWordDoc(t, tt.ccp, 0, tt.pieces...)

			text, err := wordDocumentText(wordDoc, table)

			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestWordDocumentTextRejects(t *testing.T) {
	good, table := buildWordDoc(t, -1, 0, wordPiece{text: "Jane"})
	encrypted, encTable := buildWordDoc(t, -1, flagEncrypted, wordPiece{text: "Jane"})

	badIdent := append([]byte(nil), good...)
	badIdent[0] = 0

	pastEnd, pastEndTable := buildWordDoc(t, -1, 0, wordPiece{text: "Jane"})
	binary.LittleEndian.PutUint32(pastEnd[fibCcp:], 1000)
	binary.LittleEndian.PutUint32(pastEndTable[14:], 1000)

	tests := []struct {
		name    string
		wordDoc []byte
		table   []byte
	}{
		{"bad identifier", badIdent, table},
		{"encrypted", encrypted, encTable},
		{"missing table stream", good, nil},
		{"truncated fib", good[:0x40], table},
		{"piece past stream end", pastEnd, pastEndTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wordDocumentText(tt.wordDoc, tt.table)
			assert.Error(t, err)
		})
	}
}

func TestExtractDocNotCompoundFile(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	path := filepath.Join(t.TempDir(), "old.doc")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := New().Extract(context.Background(), path, resumeKinds[".doc"])

	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestVerifyRejectsRenamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just some plain text, not a pdf"), 0o600))

	err := resumeKinds[".pdf"].Verify(path)

	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestExtractCorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"+strings.Repeat("garbage ", 20)), 0o600))

	_, err := New().Extract(context.Background(), path, resumeKinds[".pdf"])

	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestNormalizeAndTruncate(t *testing.T) {
	assert.Equal(t, "a b\n\nc", normalize("  a   b \r\n\n\n\n c  "))
	assert.Equal(t, "héll", truncate("héllo", 4))
}
