package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
)

const (
	MaxResumeBytes = 5 << 20
	MaxAvatarBytes = 2 << 20
)

// Upload is a received file spooled to a temp path. Services that accept an
// Upload own the temp file and remove it on every exit path.
type Upload struct {
	Path         string
	OriginalName string
}

// Download is an open stored object; the caller closes Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	FileName    string
}

func removeTemp(log logrus.FieldLogger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("path", path).Warn("failed to remove temp upload")
	}
}

func checkSize(op, path string, limit int64) error {
	fi, err := os.Stat(path)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to read upload", err)
	}
	if fi.Size() == 0 {
		return utils.Invalid(op, "file is empty", map[string]string{"file": "empty"})
	}
	if fi.Size() > limit {
		return TooLarge(op, limit)
	}
	return nil
}

// TooLarge is the error for an upload over limit bytes.
func TooLarge(op string, limit int64) error {
	return utils.Invalid(op, fmt.Sprintf("file exceeds %d MB", limit>>20), map[string]string{"file": "too large"})
}

func putFile(ctx context.Context, store storage.ObjectStore, key, contentType, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return store.Put(ctx, key, contentType, f)
}

// dropObject deletes key outside the request's cancellation and only logs
// failures.
func dropObject(ctx context.Context, store storage.ObjectStore, log logrus.FieldLogger, key, reason string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := store.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("object", key).Warn("failed to delete " + reason)
	}
}

// displayName is the client's file name without any directory part.
func displayName(clean *utils.Sanitizer, name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return clean.String(base)
}
