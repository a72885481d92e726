package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/campus-connect/career-portal/internal/config"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/utils"
)

// TokenParser validates a bearer token. *casdoorsdk.Client satisfies it.
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	parser      TokenParser
	userService services.UserService
	logger      utils.Logger
}

// NewCasdoorClient builds the SDK client from configuration
func NewCasdoorClient(cfg config.CasdoorConfig) *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(parser TokenParser, userService services.UserService, logger utils.Logger) *CasdoorAuthMiddleware {
	return &CasdoorAuthMiddleware{
		parser:      parser,
		userService: userService,
		logger:      logger,
	}
}

// AuthMiddleware validates the bearer token and records the caller in the
// users table the first time it is seen.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header missing")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := cam.parser.ParseJwtToken(strings.TrimSpace(token))
		if err != nil {
			utils.GetLogger(c, cam.logger).Warn("Rejected bearer token", "error", err)
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := userFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		if err := cam.userService.SyncIdentity(c.Request.Context(), &models.User{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Image: user.Image,
		}); err != nil {
			utils.GetLogger(c, cam.logger).Error("Failed to sync user from token", "user_id", user.ID, "error", err)
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Set("user_email", user.Email)

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has required role. Admins always pass.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			abortForbidden(c, "User role not found")
			return
		}

		if !hasRole(role, requiredRoles) {
			abortForbidden(c, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// RequireSelfOrRoleMiddleware lets a caller act on the user named by the :id
// path parameter only when it is their own id or they hold one of the roles.
func (cam *CasdoorAuthMiddleware) RequireSelfOrRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromContext(c)
		if err != nil {
			abortForbidden(c, "User not found in context")
			return
		}
		if userID == c.Param("id") {
			c.Next()
			return
		}

		role, _ := GetUserRoleFromContext(c)
		if !hasRole(role, roles) {
			abortForbidden(c, "Cannot modify another user")
			return
		}

		c.Next()
	}
}

func hasRole(role models.UserRole, allowed []models.UserRole) bool {
	return role == models.RoleAdmin || slices.Contains(allowed, role)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: message})
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: message})
}

// userFromClaims builds the caller from JWT claims
func userFromClaims(claims *casdoorsdk.Claims) (*models.User, error) {
	if claims == nil || claims.Id == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	name := claims.DisplayName
	if name == "" {
		name = claims.Name
	}

	user := &models.User{
		ID:    claims.Id,
		Name:  name,
		Email: claims.Email,
		Role:  mapCasdoorRole(claims.User),
	}
	if claims.Avatar != "" {
		avatar := claims.Avatar
		user.Image = &avatar
	}
	return user, nil
}

// mapCasdoorRole maps the Casdoor user type to a portal role
func mapCasdoorRole(u casdoorsdk.User) models.UserRole {
	if u.IsAdmin {
		return models.RoleAdmin
	}
	switch strings.ToLower(u.Type) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "sponsor", "recruiter", "company":
		return models.RoleSponsor
	default:
		return models.RoleStudent
	}
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get("user_role")
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
