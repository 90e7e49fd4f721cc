package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/services"
)

type RecruiterHandler struct {
	search services.SearchService
}

func NewRecruiterHandler(search services.SearchService) *RecruiterHandler {
	return &RecruiterHandler{search: search}
}

// seekerSearchRequest binds from the query string (GET) or a JSON body (POST).
type seekerSearchRequest struct {
	Keywords string `form:"keywords" json:"keywords"`
	City     string `form:"city" json:"city"`
	State    string `form:"state" json:"state"`
	Country  string `form:"country" json:"country"`
	Page     *int   `form:"page" json:"page"`
	Limit    *int   `form:"limit" json:"limit"`
}

func (h *RecruiterHandler) SearchSeekers(c *gin.Context) {
	const op = "RecruiterHandler.SearchSeekers"

	var req seekerSearchRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else if c.Request.ContentLength != 0 {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		writeError(c, bindError(op, err))
		return
	}

	q := models.SeekerQuery{
		Keywords: req.Keywords,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Page:     1,
		Limit:    services.DefaultSearchLimit,
	}
	if req.Page != nil {
		q.Page = *req.Page
	}
	if req.Limit != nil {
		q.Limit = *req.Limit
	}

	page, err := h.search.Seekers(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

type semanticRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

func (h *RecruiterHandler) SemanticSearch(c *gin.Context) {
	var req semanticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError("RecruiterHandler.SemanticSearch", err))
		return
	}
	if req.Limit == 0 {
		req.Limit = services.DefaultSearchLimit
	}

	hits, err := h.search.Semantic(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": len(hits), "seekers": hits})
}

func (h *RecruiterHandler) GetSeeker(c *gin.Context) {
	u, p, err := h.search.Seeker(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{User: u, Profile: p})
}
