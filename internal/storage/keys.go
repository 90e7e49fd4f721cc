package storage

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	FolderResume = "resume"
	FolderAvatar = "avatar"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds "{folder}/{userID}-{unixMillis}-{base}{ext}" for a fresh
// upload. The base name is reduced to a safe character set and capped.
func ObjectKey(folder, userID, originalName string, now time.Time) string {
	name := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))

	base = strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "._-")
	if len(base) > 64 {
		base = base[:64]
	}
	if base == "" {
		base = "file"
	}
	ext = unsafeChars.ReplaceAllString(ext, "")

	return folder + "/" + userID + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + base + ext
}

// UserPrefix is the key prefix shared by every object a user owns in folder.
func UserPrefix(folder, userID string) string {
	return folder + "/" + userID + "-"
}
