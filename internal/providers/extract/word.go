package extract

import (
	"encoding/binary"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const maxDocBytes = 16 << 20

var errMalformedDoc = errors.New("malformed word document")

// docxText reads the body text of word/document.xml. Paragraphs and breaks
// become newlines; everything but w:t runs is ignored.
func docxText(path string) (string, error) {
	const op = "extract.docxText"

	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", ioError(op, err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	if len(content) > maxDocBytes {
		return "", ioError(op, errors.New("document body too large"))
	}

	var (
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", ioError(op, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// docText reads the main document text of a legacy Word binary through its
// piece table.
func docText(path string) (string, error) {
	const op = "extract.docText"

	f, err := os.Open(path)
	if err != nil {
		return "", ioError(op, err)
	}
	defer f.Close()

	cfb, err := mscfb.New(f)
	if err != nil {
		return "", ioError(op, err)
	}

	streams := make(map[string][]byte, 3)
	for entry, err := cfb.Next(); err == nil; entry, err = cfb.Next() {
		if len(entry.Path) != 0 {
			continue
		}
		switch entry.Name {
		case "WordDocument", "0Table", "1Table":
			data, err := io.ReadAll(io.LimitReader(entry, maxDocBytes))
			if err != nil {
				return "", ioError(op, err)
			}
			streams[entry.Name] = data
		}
	}

	wordDoc, ok := streams["WordDocument"]
	if !ok {
		return "", ioError(op, errors.New("WordDocument stream missing"))
	}
	table := streams["0Table"]
	if len(wordDoc) >= fibFlags+2 && binary.LittleEndian.Uint16(wordDoc[fibFlags:])&flagWhichTable != 0 {
		table = streams["1Table"]
	}

	text, err := wordDocumentText(wordDoc, table)
	if err != nil {
		return "", ioError(op, err)
	}
	return text, nil
}

// File Information Block offsets, Word 97 and later.
const (
	fibIdent  = 0x0000
	fibFlags  = 0x000A
	fibCcp    = 0x004C
	fibFcClx  = 0x01A2
	fibLcbClx = 0x01A6
	fibMinLen = fibLcbClx + 4

	wordIdent      = 0xA5EC
	flagEncrypted  = 0x0100
	flagWhichTable = 0x0200
	pieceCompress  = 1 << 30
)

// wordDocumentText decodes the main story from a WordDocument stream and its
// table stream. Pieces are either cp1252 bytes or UTF-16LE code units.
func wordDocumentText(wordDoc, table []byte) (string, error) {
	if len(wordDoc) < fibMinLen || binary.LittleEndian.Uint16(wordDoc[fibIdent:]) != wordIdent {
		return "", errMalformedDoc
	}
	if binary.LittleEndian.Uint16(wordDoc[fibFlags:])&flagEncrypted != 0 {
		return "", errors.New("encrypted word document")
	}
	ccpText := int64(binary.LittleEndian.Uint32(wordDoc[fibCcp:]))
	fcClx := int64(binary.LittleEndian.Uint32(wordDoc[fibFcClx:]))
	lcbClx := int64(binary.LittleEndian.Uint32(wordDoc[fibLcbClx:]))
	if fcClx+lcbClx > int64(len(table)) || lcbClx == 0 {
		return "", errMalformedDoc
	}

	plc, err := pieceTable(table[fcClx : fcClx+lcbClx])
	if err != nil {
		return "", err
	}

	n := (len(plc) - 4) / 12
	pcds := plc[4*(n+1):]
	utf16le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	cp1252 := charmap.Windows1252.NewDecoder()

	var raw strings.Builder
	for i := 0; i < n; i++ {
		cpStart := int64(binary.LittleEndian.Uint32(plc[4*i:]))
		cpEnd := int64(binary.LittleEndian.Uint32(plc[4*(i+1):]))
		if cpStart >= ccpText {
			break
		}
		if cpEnd > ccpText {
			cpEnd = ccpText
		}
		if cpEnd <= cpStart {
			continue
		}
		count := cpEnd - cpStart

		fc := int64(binary.LittleEndian.Uint32(pcds[8*i+2:]))
		var (
			piece []byte
			dec   = utf16le
		)
		if fc&pieceCompress != 0 {
			off := (fc &^ pieceCompress) / 2
			if off+count > int64(len(wordDoc)) {
				return "", errMalformedDoc
			}
			piece, dec = wordDoc[off:off+count], cp1252
		} else {
			if fc+2*count > int64(len(wordDoc)) {
				return "", errMalformedDoc
			}
			piece = wordDoc[fc : fc+2*count]
		}
		s, err := dec.Bytes(piece)
		if err != nil {
			return "", err
		}
		raw.Write(s)
	}
	return plainText(raw.String()), nil
}

// pieceTable skips the property modifiers at the head of a Clx and returns
// the PlcPcd that follows.
func pieceTable(clx []byte) ([]byte, error) {
	i := 0
	for i < len(clx) && clx[i] == 0x01 {
		if i+3 > len(clx) {
			return nil, errMalformedDoc
		}
		cb := int(int16(binary.LittleEndian.Uint16(clx[i+1:])))
		if cb < 0 {
			return nil, errMalformedDoc
		}
		i += 3 + cb
	}
	if i+5 > len(clx) || clx[i] != 0x02 {
		return nil, errMalformedDoc
	}
	lcb := int(binary.LittleEndian.Uint32(clx[i+1:]))
	if lcb < 4 || (lcb-4)%12 != 0 || i+5+lcb > len(clx) {
		return nil, errMalformedDoc
	}
	return clx[i+5 : i+5+lcb], nil
}

// plainText drops field instructions and Word's control characters. Field
// results are kept.
func plainText(s string) string {
	var (
		sb     strings.Builder
		fields []bool // true once the field's separator is reached
	)
	visible := func() bool {
		for _, result := range fields {
			if !result {
				return false
			}
		}
		return true
	}
	for _, r := range s {
		switch r {
		case 0x13:
			fields = append(fields, false)
			continue
		case 0x14:
			if len(fields) > 0 {
				fields[len(fields)-1] = true
			}
			continue
		case 0x15:
			if len(fields) > 0 {
				fields = fields[:len(fields)-1]
			}
			continue
		}
		if !visible() {
			continue
		}
		switch {
		case r == '\r', r == 0x0B, r == 0x0C:
			sb.WriteByte('\n')
		case r == 0x07, r == '\t':
			sb.WriteByte('\t')
		case r == 0x1E:
			sb.WriteByte('-')
		case r < 0x20:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
