package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/api/handlers"
	"github.com/yoockh/jobportal/internal/api/middleware"
	"github.com/yoockh/jobportal/internal/auth"
	"github.com/yoockh/jobportal/internal/cache"
	"github.com/yoockh/jobportal/internal/models"
)

type RateLimits struct {
	Window  time.Duration
	Max     int
	AuthMax int
}

type Deps struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Upload    *handlers.UploadHandler
	Recruiter *handlers.RecruiterHandler
	Admin     *handlers.AdminHandler
	WS        *handlers.WSHandler

	Tokens  *auth.Manager
	Users   middleware.UserLoader
	Counter cache.Counter
	Limits  RateLimits
	Logger  logrus.FieldLogger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Job Portal API is running"})
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	jwt := middleware.JWTAuth(d.Tokens, d.Users)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(d.Counter, "api", d.Limits.Max, d.Limits.Window, d.Logger))

	authLimit := middleware.RateLimit(d.Counter, "auth", d.Limits.AuthMax, d.Limits.Window, d.Logger)
	api.POST("/auth/register", authLimit, d.Auth.Register)
	api.POST("/auth/login", authLimit, d.Auth.Login)

	profile := api.Group("/profile", jwt)
	profile.GET("", d.Profile.Me)
	profile.PATCH("", d.Profile.Update)
	profile.DELETE("/delete", middleware.RequireRole(models.RoleJobSeeker, models.RoleRecruiter), d.Profile.Delete)

	seekerOnly := middleware.RequireRole(models.RoleJobSeeker)
	profile.POST("/resume", seekerOnly, d.Upload.UploadResume)
	profile.GET("/resume", seekerOnly, d.Upload.GetResume)
	profile.POST("/avatar", seekerOnly, d.Upload.UploadAvatar)
	profile.GET("/avatar", seekerOnly, d.Upload.GetAvatar)

	recruiters := api.Group("/recruiters", jwt, middleware.RequireRole(models.RoleRecruiter, models.RoleAdmin))
	recruiters.GET("/seekers", d.Recruiter.SearchSeekers)
	recruiters.POST("/seekers", d.Recruiter.SearchSeekers)
	recruiters.POST("/seekers/semantic", d.Recruiter.SemanticSearch)
	recruiters.GET("/users/:id", d.Recruiter.GetSeeker)
	recruiters.GET("/users/:id/resume", d.Upload.GetUserResume)

	admin := api.Group("/admin", jwt, middleware.RequireAdmin())
	admin.GET("/users", d.Admin.ListUsers)
	admin.GET("/users/stats", d.Admin.Stats)
	admin.GET("/users/:id", d.Admin.GetUser)
	admin.PATCH("/users/:id", d.Admin.UpdateUser)
	admin.DELETE("/users/:id", d.Admin.DeleteUser)

	// Browsers cannot set headers on upgrades; JWTAuth also reads ?token=.
	r.GET("/ws/profile/events", jwt, middleware.RequireRole(models.RoleJobSeeker), d.WS.ProfileEvents)
}
