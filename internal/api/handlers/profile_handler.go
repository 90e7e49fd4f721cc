package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/services"
	"github.com/yoockh/jobportal/internal/utils"
)

type ProfileHandler struct {
	profiles services.ProfileService
	accounts services.AccountService
}

func NewProfileHandler(profiles services.ProfileService, accounts services.AccountService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts}
}

type profileResponse struct {
	User    *models.User   `json:"user"`
	Profile models.Profile `json:"profile"`
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, p, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: u, Profile: p})
}

type updateProfileRequest struct {
	Name    *string         `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email   *string         `json:"email,omitempty" binding:"omitempty,email"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	const op = "ProfileHandler.Update"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(op, err))
		return
	}

	in := services.UpdateProfileInput{Name: req.Name, Email: req.Email}
	if hasBody(req.Profile) {
		role, _ := models.RoleFromName(c.GetString("role"))
		switch role {
		case models.RoleJobSeeker:
			in.JobSeeker = &models.JobSeekerUpdate{}
			if err := decodeValid(op, req.Profile, in.JobSeeker); err != nil {
				writeError(c, err)
				return
			}
		case models.RoleRecruiter:
			in.Recruiter = &models.RecruiterUpdate{}
			if err := decodeValid(op, req.Profile, in.Recruiter); err != nil {
				writeError(c, err)
				return
			}
		}
	}

	u, p, err := h.profiles.Update(c.Request.Context(), userID, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: u, Profile: p})
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func hasBody(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// decodeValid decodes a nested JSON object and runs the binding rules on it.
func decodeValid(op string, raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid profile body", err)
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return bindError(op, err)
	}
	return nil
}
