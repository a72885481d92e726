package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/models"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/repositories/postgres"
	"github.com/campus-connect/career-portal/internal/services"
	"github.com/campus-connect/career-portal/internal/storage"
	"github.com/campus-connect/career-portal/internal/testutil"
	"github.com/campus-connect/career-portal/internal/utils"
	"github.com/campus-connect/career-portal/internal/validator"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokenParser struct {
	tokens map[string]*casdoorsdk.Claims
}

func (f *fakeTokenParser) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	claims, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("token is malformed")
	}
	return claims, nil
}

type testServer struct {
	router *gin.Engine
	repo   repositories.Repository
	blob   *storage.MemoryStore
}

func newTestServer(t *testing.T, parser TokenParser) *testServer {
	t.Helper()

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogLogger)

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{DB: testutil.NewDB(t)})
	require.NoError(t, repoManager.Initialize())

	blob := storage.NewMemoryStore()
	serviceManager := services.NewServiceManager(repoManager, blob, events.NewMockEventPublisher(slogLogger), slogLogger, validator.New())

	var auth *CasdoorAuthMiddleware
	if parser != nil {
		auth = NewCasdoorAuthMiddleware(parser, serviceManager.User(), logger)
	}

	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(serviceManager, logger, auth).SetupRoutes(router)

	return &testServer{router: router, repo: repoManager.GetRepository(), blob: blob}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedProfile(t *testing.T, id, name, resume string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.repo.User().Create(ctx, &models.User{ID: id, Name: name, Email: id + "@example.edu"}))

	profile := &models.CareerProfile{UserID: id}
	if resume != "" {
		profile.ResumePath = testutil.StrPtr(resume)
	}
	require.NoError(t, s.repo.CareerProfile().Create(ctx, profile))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ===== PROFILES =====

func TestProfileRoutes_CreateThenGet(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/users/u1/profile", map[string]interface{}{
		"name":   "A",
		"email":  "a@x.com",
		"skills": []string{"go", "sql"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[models.User](t, w)
	assert.Equal(t, "u1", created.ID)
	assert.Equal(t, "A", created.Name)
	require.NotNil(t, created.CareerProfile)
	assert.Equal(t, []string{"go", "sql"}, []string(created.CareerProfile.Skills))

	w = s.do(t, http.MethodGet, "/api/users/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.User](t, w)
	assert.Equal(t, "a@x.com", got.Email)
	require.NotNil(t, got.CareerProfile)

	w = s.do(t, http.MethodGet, "/api/users/u1/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[models.CareerProfile](t, w)
	assert.Equal(t, "u1", profile.UserID)
}

func TestProfileRoutes_CreateTwiceConflicts(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]interface{}{"name": "A", "email": "a@x.com"}

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/users/u1/profile", body).Code)

	w := s.do(t, http.MethodPost, "/api/users/u1/profile", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Career profile already exists. Use PUT to update.", decode[ErrorResponse](t, w).Error)
}

func TestProfileRoutes_UpdateReplaces(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPut, "/api/users/u1/profile", map[string]interface{}{
		"name": "A", "email": "a@x.com", "college": "MIT", "skills": []string{"go"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/users/u1/profile", map[string]interface{}{
		"name": "A", "email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[models.User](t, w)
	require.NotNil(t, user.CareerProfile)
	assert.Empty(t, user.CareerProfile.College)
	assert.Empty(t, user.CareerProfile.Skills)
}

func TestProfileRoutes_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/users/u1/profile", map[string]interface{}{"name": " ", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", decode[ErrorResponse](t, w).Error)

	req := httptest.NewRequest(http.MethodPut, "/api/users/u1/profile", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileRoutes_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/ghost/profile", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Career profile not found", decode[ErrorResponse](t, w).Error)
}

func TestProfileRoutes_Lists(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedProfile(t, "u1", "Ada", "")
	s.seedProfile(t, "u2", "Bob", "")

	w := s.do(t, http.MethodGet, "/api/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.CareerProfileList](t, w).CareerProfiles, 2)

	w = s.do(t, http.MethodGet, "/api/applications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"applications":[]}`, w.Body.String())
}

func TestProfileRoutes_Export(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedProfile(t, "u1", "Ada", "")

	w := s.do(t, http.MethodGet, "/api/profiles/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), exportFileName)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

// ===== USERS =====

func TestUserRoutes_SearchPagination(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		require.NoError(t, s.repo.User().Create(ctx, &models.User{
			ID: fmt.Sprintf("j%02d", i), Name: fmt.Sprintf("John %02d", i), Email: fmt.Sprintf("j%02d@example.edu", i),
		}))
	}
	require.NoError(t, s.repo.User().Create(ctx, &models.User{ID: "m1", Name: "Mary", Email: "m1@example.edu"}))

	w := s.do(t, http.MethodGet, "/api/users?search=JOHN&page=2&itemsPerPage=8", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[models.UserPage](t, w)
	assert.Len(t, page.Users, 4)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.EqualValues(t, 12, page.TotalUsers)

	w = s.do(t, http.MethodGet, "/api/users?search=john&page=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users":[]`)

	w = s.do(t, http.MethodGet, "/api/users?search=john&page=9223372036854775807", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users":[]`)

	w = s.do(t, http.MethodGet, "/api/users?page=abc&itemsPerPage=-3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[models.UserPage](t, w)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Users, 8)
}

func TestUserRoutes_UpdateOrCreate(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPut, "/api/users/u1", map[string]interface{}{"name": "Ada", "email": "ada@x.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/users/u1", map[string]interface{}{"name": "Ada L", "email": "ada@x.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada L", decode[models.User](t, w).Name)

	w = s.do(t, http.MethodPut, "/api/users/u2", map[string]interface{}{"name": "Bob", "email": "ada@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email is already in use", decode[ErrorResponse](t, w).Error)
}

// ===== FILES =====

func TestFileRoutes_UploadResume(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.upload(t, "/api/upload/resume", "cv.pdf", pdfBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	name := decode[models.ResumeUploadResponse](t, w).FileName
	assert.Contains(t, name, "-cv.pdf")

	w = s.do(t, http.MethodGet, "/api/resumes/"+name, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
	assert.Equal(t, pdfBytes, w.Body.Bytes())
}

func TestFileRoutes_UploadRejections(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.upload(t, "/api/upload/resume", "cv.pdf", pngBytes)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported file type", decode[ErrorResponse](t, w).Error)

	big := append(append([]byte{}, pngBytes...), make([]byte, 10<<20)...)
	w = s.upload(t, "/api/upload/profile-picture", "me.png", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	justOver := append(append([]byte{}, pngBytes...), make([]byte, 5<<20)...)
	w = s.upload(t, "/api/upload/profile-picture", "me.png", justOver)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "File too large", decode[ErrorResponse](t, w).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/resume", bytes.NewBufferString("plain"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decode[ErrorResponse](t, rec).Error)

	assert.Zero(t, s.blob.Uploads())
}

func TestFileRoutes_ProfilePicture(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.upload(t, "/api/upload/profile-picture", "me.png", pngBytes)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	publicURL := decode[models.ProfilePictureUploadResponse](t, w).PublicURL
	assert.Contains(t, publicURL, "memory://public/")

	w = s.do(t, http.MethodGet, "/api/profile-picture/1700000000000-me.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	signed := decode[models.SignedURLResponse](t, w)
	assert.Contains(t, signed.URL, "expires=86400")

	w = s.do(t, http.MethodGet, "/api/profile-picture/"+strings.Repeat("a", 501), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileRoutes_ResumeNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/resumes/missing.pdf", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Resume not found"}`, w.Body.String())
}

func TestFileRoutes_ResumeDispositionEscapesName(t *testing.T) {
	s := newTestServer(t, nil)
	name := `cv"; filename=evil.exe.pdf`
	s.blob.Put(name, pdfBytes)

	w := s.do(t, http.MethodGet, "/api/resumes/"+url.PathEscape(name), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "inline", disposition)
	assert.Equal(t, name, params["filename"])
}

func TestFileRoutes_DownloadAllResumes(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedProfile(t, "u1", "Ada", "ada.pdf")
	s.seedProfile(t, "u2", "Bob", "bob.pdf")
	s.seedProfile(t, "u3", "Cy", "gone.pdf")
	s.blob.Put("ada.pdf", pdfBytes)
	s.blob.Put("bob.pdf", pdfBytes)

	w := s.do(t, http.MethodGet, "/api/resumes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="all-resumes.zip"`, w.Header().Get("Content-Disposition"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"Ada.pdf", "Bob.pdf"}, names)
}

// ===== HEALTH & MIDDLEWARE =====

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodOptions, "/api/users", nil, "Origin", "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

// ===== AUTH =====

func newAuthServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServer(t, &fakeTokenParser{tokens: map[string]*casdoorsdk.Claims{
		"student-token": {User: casdoorsdk.User{Id: "stu", Name: "stu", DisplayName: "Stu Dent", Email: "stu@x.edu", Type: "normal-user"}},
		"sponsor-token": {User: casdoorsdk.User{Id: "spo", Name: "spo", Email: "spo@acme.com", Type: "sponsor"}},
		"admin-token":   {User: casdoorsdk.User{Id: "adm", Name: "adm", Email: "adm@x.edu", IsAdmin: true}},
	}})
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func TestAuth_RejectsMissingOrBadToken(t *testing.T) {
	s := newAuthServer(t)

	w := s.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/users", nil, bearer("forged")...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_SyncsCaller(t *testing.T) {
	s := newAuthServer(t)

	w := s.do(t, http.MethodGet, "/api/users/stu", nil, bearer("student-token")...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Stu Dent", decode[models.User](t, w).Name)
}

func TestAuth_SponsorRoutes(t *testing.T) {
	s := newAuthServer(t)

	w := s.do(t, http.MethodGet, "/api/profiles", nil, bearer("student-token")...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/profiles", nil, bearer("sponsor-token")...)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/applications", nil, bearer("admin-token")...)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_SelfOrAdmin(t *testing.T) {
	s := newAuthServer(t)
	body := map[string]interface{}{"name": "Stu", "email": "stu@x.edu"}

	w := s.do(t, http.MethodPut, "/api/users/stu/profile", body, bearer("student-token")...)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/users/spo/profile", body, bearer("student-token")...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/stu", map[string]interface{}{"name": "Stu 2", "email": "stu@x.edu"}, bearer("admin-token")...)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapCasdoorRole(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, mapCasdoorRole(casdoorsdk.User{IsAdmin: true}))
	assert.Equal(t, models.RoleAdmin, mapCasdoorRole(casdoorsdk.User{Type: "Administrator"}))
	assert.Equal(t, models.RoleSponsor, mapCasdoorRole(casdoorsdk.User{Type: "recruiter"}))
	assert.Equal(t, models.RoleStudent, mapCasdoorRole(casdoorsdk.User{Type: "normal-user"}))
}
