package handlers

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yoockh/jobportal/internal/services"
	"github.com/yoockh/jobportal/internal/utils"
)

const (
	resumeField = "resume"
	avatarField = "profilePicture"

	// room for multipart headers and boundaries around the file part
	multipartOverhead = 64 << 10
)

type UploadHandler struct {
	resumes services.ResumeService
	avatars services.AvatarService
	tmpDir  string
}

func NewUploadHandler(resumes services.ResumeService, avatars services.AvatarService, tmpDir string) *UploadHandler {
	return &UploadHandler{resumes: resumes, avatars: avatars, tmpDir: tmpDir}
}

func (h *UploadHandler) UploadResume(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	up, ok := h.spool(c, "UploadHandler.UploadResume", resumeField, services.MaxResumeBytes)
	if !ok {
		return
	}

	p, err := h.resumes.Upload(c.Request.Context(), userID, up)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "resume uploaded", "profile": p})
}

func (h *UploadHandler) GetResume(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.sendResume(c, userID)
}

// GetUserResume serves another user's resume to recruiters and admins.
func (h *UploadHandler) GetUserResume(c *gin.Context) {
	h.sendResume(c, c.Param("id"))
}

func (h *UploadHandler) sendResume(c *gin.Context, userID string) {
	d, err := h.resumes.Download(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	defer d.Body.Close()

	sendFile(c, d, "attachment")
}

func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	up, ok := h.spool(c, "UploadHandler.UploadAvatar", avatarField, services.MaxAvatarBytes)
	if !ok {
		return
	}

	u, err := h.avatars.Upload(c.Request.Context(), userID, up)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile picture uploaded", "user": u})
}

func (h *UploadHandler) GetAvatar(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, d, err := h.avatars.Open(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if url != "" {
		c.Redirect(http.StatusFound, url)
		return
	}
	defer d.Body.Close()

	sendFile(c, d, "inline")
}

// spool saves the multipart field to a temp file handed over to a service,
// which then owns its removal. The body is cut off a little past limit, so
// oversized uploads are refused while streaming in.
func (h *UploadHandler) spool(c *gin.Context, op, field string, limit int64) (services.Upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile(field)
	if tooLarge(err) {
		writeError(c, services.TooLarge(op, limit))
		return services.Upload{}, false
	}
	if err != nil {
		writeError(c, utils.Invalid(op, "missing multipart field '"+field+"'", map[string]string{field: "required"}))
		return services.Upload{}, false
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(h.tmpDir, "upload-"+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		_ = os.Remove(path)
		writeError(c, utils.E(utils.CodeInternal, op, "failed to store upload", err))
		return services.Upload{}, false
	}
	return services.Upload{Path: path, OriginalName: fh.Filename}, true
}

func tooLarge(err error) bool {
	if err == nil {
		return false
	}
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func sendFile(c *gin.Context, d *services.Download, disposition string) {
	headers := map[string]string{}
	if cd := mime.FormatMediaType(disposition, map[string]string{"filename": d.FileName}); cd != "" {
		headers["Content-Disposition"] = cd
	}
	ct := d.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, d.Size, ct, d.Body, headers)
}
