package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/utils"
)

const healthCheckTimeout = 3 * time.Second

type HandlerManager struct {
	userHandler    *UserHandler
	profileHandler *ProfileHandler
	fileHandler    *FileHandler
	authMiddleware *CasdoorAuthMiddleware
	serviceManager services.ServiceManager
	logger         utils.Logger
}

// NewHandlerManager wires handlers to services. A nil auth middleware serves
// the API without authentication or role guards.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	authMiddleware *CasdoorAuthMiddleware,
) *HandlerManager {
	return &HandlerManager{
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		profileHandler: NewProfileHandler(serviceManager.Profile(), serviceManager.Archive(), serviceManager.ImportExport(), logger),
		fileHandler:    NewFileHandler(serviceManager.File(), logger),
		authMiddleware: authMiddleware,
		serviceManager: serviceManager,
		logger:         logger,
	}
}

func passThrough(c *gin.Context) { c.Next() }

func (hm *HandlerManager) requireRole(roles ...models.UserRole) gin.HandlerFunc {
	if hm.authMiddleware == nil {
		return passThrough
	}
	return hm.authMiddleware.RequireRoleMiddleware(roles...)
}

func (hm *HandlerManager) requireSelfOrRole(roles ...models.UserRole) gin.HandlerFunc {
	if hm.authMiddleware == nil {
		return passThrough
	}
	return hm.authMiddleware.RequireSelfOrRoleMiddleware(roles...)
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	if hm.authMiddleware != nil {
		api.Use(hm.authMiddleware.AuthMiddleware())
	}

	sponsorOnly := hm.requireRole(models.RoleSponsor, models.RoleAdmin)
	selfOrAdmin := hm.requireSelfOrRole(models.RoleAdmin)
	{
		users := api.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", selfOrAdmin, hm.userHandler.UpdateUser)

			users.GET("/:id/profile", hm.profileHandler.GetProfile)
			users.POST("/:id/profile", selfOrAdmin, hm.profileHandler.CreateProfile)
			users.PUT("/:id/profile", selfOrAdmin, hm.profileHandler.UpdateProfile)
		}

		// Bulk views - Sponsors and Admins only
		api.GET("/profiles", sponsorOnly, hm.profileHandler.ListProfiles)
		api.GET("/profiles/export", sponsorOnly, hm.profileHandler.ExportProfiles)
		api.GET("/applications", sponsorOnly, hm.profileHandler.ListApplications)
		api.GET("/resumes", sponsorOnly, hm.profileHandler.DownloadAllResumes)

		upload := api.Group("/upload")
		{
			upload.POST("/resume", hm.fileHandler.UploadResume)
			upload.POST("/profile-picture", hm.fileHandler.UploadProfilePicture)
		}
		api.GET("/profile-picture/:filename", hm.fileHandler.GetProfilePictureURL)
		api.GET("/resumes/:filename", hm.fileHandler.GetResume)
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.GetLogger(c, hm.logger).Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "career-portal",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "career-portal",
	})
}
