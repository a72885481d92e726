package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/utils"
)

const (
	archiveFileName = "all-resumes.zip"
	exportFileName  = "career-profiles.xlsx"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ProfileHandler struct {
	BaseHandler
	profileService      services.ProfileService
	archiveService      services.ArchiveService
	importExportService services.ImportExportService
}

func NewProfileHandler(profileService services.ProfileService, archiveService services.ArchiveService, importExportService services.ImportExportService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:         NewBaseHandler(logger),
		profileService:      profileService,
		archiveService:      archiveService,
		importExportService: importExportService,
	}
}

// GetProfile returns the career profile of a user
// @Summary Get career profile
// @Tags profiles
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.CareerProfile
// @Failure 404 {object} ErrorResponse "Career profile not found"
// @Router /users/{id}/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.Param("id")
	h.LogRequest(c, "Getting career profile", "user_id", userID)

	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CreateProfile creates the career profile, creating the user when needed
// @Summary Create career profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param profile body models.CareerProfileRequest true "Career profile"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Career profile already exists"
// @Router /users/{id}/profile [post]
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	userID := c.Param("id")
	h.LogRequest(c, "Creating career profile", "user_id", userID)

	var req models.CareerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.profileService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateProfile replaces the career profile, creating it when absent
// @Summary Upsert career profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param profile body models.CareerProfileRequest true "Career profile"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /users/{id}/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.Param("id")
	h.LogRequest(c, "Updating career profile", "user_id", userID)

	var req models.CareerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.profileService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListProfiles returns every career profile with its user
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	h.LogRequest(c, "Listing career profiles")

	list, err := h.profileService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ProfileHandler) ListApplications(c *gin.Context) {
	h.LogRequest(c, "Listing applications")

	list, err := h.profileService.ListApplications(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ExportProfiles sends all career profiles as an XLSX workbook
func (h *ProfileHandler) ExportProfiles(c *gin.Context) {
	h.LogRequest(c, "Exporting career profiles")

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Status(http.StatusOK)

	if err := h.importExportService.ExportProfiles(c.Request.Context(), c.Writer); err != nil {
		h.abortStream(c, err)
	}
}

// DownloadAllResumes streams a zip of every resume referenced by a profile
func (h *ProfileHandler) DownloadAllResumes(c *gin.Context) {
	h.LogRequest(c, "Downloading all resumes")

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+archiveFileName+`"`)
	c.Status(http.StatusOK)

	if _, err := h.archiveService.WriteResumeArchive(c.Request.Context(), c.Writer); err != nil {
		h.abortStream(c, err)
	}
}

// abortStream reports an error as JSON when no body bytes were sent yet, and
// otherwise can only log it.
func (h *ProfileHandler) abortStream(c *gin.Context, err error) {
	if c.Writer.Written() {
		h.LogError(c, err, "Streaming response aborted")
		c.Abort()
		return
	}
	c.Writer.Header().Del("Content-Disposition")
	c.Writer.Header().Del("Content-Type")
	h.handleServiceError(c, err)
}
