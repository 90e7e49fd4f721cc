package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/services"
	"github.com/yoockh/jobportal/internal/utils"
)

type AdminHandler struct {
	svc services.AdminService
}

func NewAdminHandler(svc services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	const op = "AdminHandler.ListUsers"

	page, err := queryInt(c, "page", 1)
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", services.DefaultSearchLimit)
	if err != nil {
		writeError(c, err)
		return
	}
	role, err := queryInt(c, "role", 0)
	if err != nil {
		writeError(c, err)
		return
	}

	f := models.UserFilter{
		Role:   models.Role(role),
		Search: c.Query("search"),
		SortBy: c.Query("sortBy"),
		Page:   page,
		Limit:  limit,
	}
	switch strings.ToLower(c.DefaultQuery("order", "desc")) {
	case "desc":
		f.Desc = true
	case "asc":
	default:
		writeError(c, utils.Invalid(op, "order must be asc or desc", map[string]string{"order": "asc|desc"}))
		return
	}

	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	u, p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: u, Profile: p})
}

type adminUpdateRequest struct {
	Name        *string         `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email       *string         `json:"email,omitempty" binding:"omitempty,email"`
	Role        *int            `json:"role,omitempty" binding:"omitempty,oneof=1 2 3"`
	IsActive    *bool           `json:"isActive,omitempty"`
	CompanyName *string         `json:"companyName,omitempty" binding:"omitempty,max=200"`
	Profile     json.RawMessage `json:"profile,omitempty"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	const op = "AdminHandler.UpdateUser"

	var req adminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(op, err))
		return
	}

	in := services.AdminUpdateInput{
		Name:        req.Name,
		Email:       req.Email,
		IsActive:    req.IsActive,
		CompanyName: req.CompanyName,
	}
	if req.Role != nil {
		r := models.Role(*req.Role)
		in.Role = &r
	}
	if hasBody(req.Profile) {
		in.JobSeeker = &models.JobSeekerUpdate{}
		if err := decodeValid(op, req.Profile, in.JobSeeker); err != nil {
			writeError(c, err)
			return
		}
	}

	u, p, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: u, Profile: p})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
