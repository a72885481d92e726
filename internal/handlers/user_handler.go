package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// ListUsers lists users with optional name search
// @Summary List users
// @Description Get a paginated list of users matching a name substring
// @Tags users
// @Produce json
// @Param search query string false "Case-insensitive name substring"
// @Param page query int false "Page number (default: 1)"
// @Param itemsPerPage query int false "Page size (default: 8, max: 100)"
// @Success 200 {object} models.UserPage
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := models.ListUsersParams{
		Search:       c.Query("search"),
		Page:         queryInt(c, "page"),
		ItemsPerPage: queryInt(c, "itemsPerPage"),
	}
	h.LogRequest(c, "Listing users", "search", params.Search, "page", params.Page)

	page, err := h.userService.List(c.Request.Context(), params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetUser retrieves a user with career profile and sessions
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser updates or creates the user basics
// @Summary Update or create user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body models.UserUpdateRequest true "User basics"
// @Success 200 {object} models.User "Updated"
// @Success 201 {object} models.User "Created"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Email already in use"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")
	h.LogRequest(c, "Updating user", "user_id", userID)

	var req models.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, created, err := h.userService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// queryInt returns the integer query parameter, or 0 when absent or malformed.
// Paging treats 0 as the default, so malformed values never produce a 400.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
