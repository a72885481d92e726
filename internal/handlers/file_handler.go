package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/storage"
	"github.com/campus-connect/career-portal/internal/utils"
)

// multipartOverhead is the body allowance on top of the file limit for
// multipart framing and other form fields.
const multipartOverhead = 1 << 20

type FileHandler struct {
	BaseHandler
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService, logger utils.Logger) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		fileService: fileService,
	}
}

// UploadResume stores a PDF resume as a private object
// @Summary Upload resume
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF, at most 10 MB"
// @Success 200 {object} models.ResumeUploadResponse
// @Failure 400 {object} ErrorResponse "Missing file or not a PDF"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /upload/resume [post]
func (h *FileHandler) UploadResume(c *gin.Context) {
	h.LogRequest(c, "Uploading resume")

	h.upload(c, storage.ResumePolicy, func(ctx context.Context, filename string, size int64, body io.Reader) (interface{}, error) {
		return h.fileService.UploadResume(ctx, filename, size, body)
	})
}

// UploadProfilePicture stores an image as a public object
// @Summary Upload profile picture
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "JPEG, PNG or WebP, at most 5 MB"
// @Success 200 {object} models.ProfilePictureUploadResponse
// @Failure 400 {object} ErrorResponse "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /upload/profile-picture [post]
func (h *FileHandler) UploadProfilePicture(c *gin.Context) {
	h.LogRequest(c, "Uploading profile picture")

	h.upload(c, storage.ProfilePicturePolicy, func(ctx context.Context, filename string, size int64, body io.Reader) (interface{}, error) {
		return h.fileService.UploadProfilePicture(ctx, filename, size, body)
	})
}

type uploadFunc func(ctx context.Context, filename string, size int64, body io.Reader) (interface{}, error)

func (h *FileHandler) upload(c *gin.Context, policy storage.UploadPolicy, store uploadFunc) {
	limit := policy.MaxBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.respondError(c, http.StatusRequestEntityTooLarge, "File too large", nil)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, http.StatusRequestEntityTooLarge, "File too large", nil)
			return
		}
		h.respondError(c, http.StatusBadRequest, "No file uploaded", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer file.Close()

	resp, err := store(c.Request.Context(), fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfilePictureURL returns a signed link valid for 24 hours
// @Summary Sign profile picture URL
// @Tags files
// @Produce json
// @Param filename path string true "Stored object name"
// @Success 200 {object} models.SignedURLResponse
// @Router /profile-picture/{filename} [get]
func (h *FileHandler) GetProfilePictureURL(c *gin.Context) {
	name := c.Param("filename")
	h.LogRequest(c, "Signing profile picture url", "name", name)

	signed, err := h.fileService.ProfilePictureURL(c.Request.Context(), name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, signed)
}

// GetResume serves a stored resume inline
// @Summary Get resume
// @Tags files
// @Produce application/pdf
// @Param filename path string true "Stored object name"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Resume not found"
// @Router /resumes/{filename} [get]
func (h *FileHandler) GetResume(c *gin.Context) {
	name := c.Param("filename")
	h.LogRequest(c, "Getting resume", "name", name)

	data, err := h.fileService.GetResume(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			h.respondError(c, http.StatusNotFound, "Resume not found", nil)
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", contentDisposition("inline", name))
	c.Data(http.StatusOK, "application/pdf", data)
}

// contentDisposition quotes or RFC 2231-encodes filename as needed.
func contentDisposition(disposition, filename string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": filename}); v != "" {
		return v
	}
	return disposition
}
