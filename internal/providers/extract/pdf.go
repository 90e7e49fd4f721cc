package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

func pdfText(path string) (text string, err error) {
	const op = "extract.pdfText"

	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", ioError(op, fmt.Errorf("pdf parser: %v", r))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", ioError(op, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", ioError(op, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", ioError(op, err)
	}
	return buf.String(), nil
}
