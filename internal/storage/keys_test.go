package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name     string
		folder   string
		original string
		want     string
	}{
		{"plain", FolderResume, "cv.pdf", "resume/u1-1700000000123-cv.pdf"},
		{"spaces and case", FolderResume, "My Resume (final).PDF", "resume/u1-1700000000123-My_Resume_final.pdf"},
		{"path traversal", FolderAvatar, "../../etc/passwd.png", "avatar/u1-1700000000123-passwd.png"},
		{"windows path", FolderAvatar, `C:\Users\me\face.jpg`, "avatar/u1-1700000000123-face.jpg"},
		{"only symbols", FolderResume, "???.docx", "resume/u1-1700000000123-file.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.folder, "u1", tt.original, now))
		})
	}
}

func TestObjectKeyLongNameIsCapped(t *testing.T) {
	key := ObjectKey(FolderResume, "u1", strings.Repeat("a", 300)+".pdf", time.UnixMilli(1))

	assert.True(t, strings.HasPrefix(key, UserPrefix(FolderResume, "u1")))
	assert.Equal(t, "resume/u1-1-"+strings.Repeat("a", 64)+".pdf", key)
}
