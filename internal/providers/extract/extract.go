package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yoockh/jobportal/internal/utils"
)

// Kind is a supported upload type keyed by its lowercase extension.
type Kind struct {
	Ext      string
	MimeType string
	// accepted holds the detected types (or ancestors) that may back Ext.
	accepted []string
}

var resumeKinds = map[string]Kind{
	".pdf": {Ext: ".pdf", MimeType: "application/pdf", accepted: []string{"application/pdf"}},
	".docx": {
		Ext:      ".docx",
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		accepted: []string{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	},
	".doc": {Ext: ".doc", MimeType: "application/msword", accepted: []string{"application/msword", "application/x-ole-storage"}},
}

var imageKinds = map[string]Kind{
	".jpg":  {Ext: ".jpg", MimeType: "image/jpeg", accepted: []string{"image/jpeg"}},
	".jpeg": {Ext: ".jpeg", MimeType: "image/jpeg", accepted: []string{"image/jpeg"}},
	".png":  {Ext: ".png", MimeType: "image/png", accepted: []string{"image/png"}},
	".gif":  {Ext: ".gif", MimeType: "image/gif", accepted: []string{"image/gif"}},
	".webp": {Ext: ".webp", MimeType: "image/webp", accepted: []string{"image/webp"}},
}

// ResumeKind resolves a resume filename to its kind or fails with an
// INVALID_ARGUMENT "unsupported file type" error.
func ResumeKind(filename string) (Kind, error) {
	return lookup(resumeKinds, filename, "only .pdf, .doc and .docx resumes are allowed")
}

func ImageKind(filename string) (Kind, error) {
	return lookup(imageKinds, filename, "only jpeg, png, gif and webp images are allowed")
}

func lookup(kinds map[string]Kind, filename, msg string) (Kind, error) {
	k, ok := kinds[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return Kind{}, utils.E(utils.CodeInvalidArgument, "extract.Kind", "unsupported file type: "+msg, nil)
	}
	return k, nil
}

// Verify sniffs the file at path and checks that its content matches k, so
// a renamed binary cannot pass as a document or image.
func (k Kind) Verify(path string) error {
	const op = "extract.Verify"

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range k.accepted {
			if m.Is(a) {
				return nil
			}
		}
	}
	return utils.E(utils.CodeInvalidArgument, op,
		fmt.Sprintf("file content (%s) does not match extension %s", mt.String(), k.Ext), nil)
}

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string, kind Kind) (string, error)
}

// MaxTextRunes bounds the text handed to the structuring step.
const MaxTextRunes = 60000

type extractor struct{}

func New() Extractor { return extractor{} }

func (extractor) Extract(ctx context.Context, path string, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch kind.Ext {
	case ".pdf":
		text, err = pdfText(path)
	case ".docx":
		text, err = docxText(path)
	case ".doc":
		text, err = docText(path)
	default:
		return "", utils.E(utils.CodeInvalidArgument, "extract.Extract", "unsupported file type", nil)
	}
	if err != nil {
		return "", err
	}
	return truncate(normalize(text), MaxTextRunes), nil
}

func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func ioError(op string, err error) error {
	return utils.E(utils.CodeInvalidArgument, op, "unable to read document", err)
}
