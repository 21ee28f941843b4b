package handlers

import (
	"context"

	"imageshare/internal/config"
	"imageshare/internal/logger"
	"imageshare/internal/models"
	"imageshare/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	createdUser   *models.User
	createErr     error
	validatedUser *models.User
	validateErr   error
	updatedUser   *models.User
	updateErr     error
	deleteErr     error
	userByID      *models.User
	userByIDErr   error
	allUsers      []models.User
	allUsersErr   error
	token         string
	tokenErr      error
	identity      *models.Identity

	lastCreateUsername string
	lastCreateRole     string
	lastDeleteID       string
	lastVerifyToken    string
}

func (m *mockAuth) CreateUser(ctx context.Context, username, password, role string) (*models.User, error) {
	m.lastCreateUsername = username
	m.lastCreateRole = role
	return m.createdUser, m.createErr
}
func (m *mockAuth) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	return m.validatedUser, m.validateErr
}
func (m *mockAuth) UpdateUser(ctx context.Context, id string, patch service.UserPatch) (*models.User, error) {
	return m.updatedUser, m.updateErr
}
func (m *mockAuth) DeleteUser(ctx context.Context, id string) error {
	m.lastDeleteID = id
	return m.deleteErr
}
func (m *mockAuth) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.userByID, m.userByIDErr
}
func (m *mockAuth) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return m.allUsers, m.allUsersErr
}
func (m *mockAuth) CreateToken(identity models.Identity) (string, error) {
	return m.token, m.tokenErr
}
func (m *mockAuth) VerifyToken(token string) *models.Identity {
	m.lastVerifyToken = token
	return m.identity
}
func (m *mockAuth) EnsureRootAdmin(ctx context.Context) error { return nil }

type mockShares struct {
	created   *models.Share
	createErr error
	share     *models.Share
	shareErr  error
	list      []models.Share
	listErr   error
	updated   *models.Share
	updateErr error
	deleteErr error

	lastGetID       string
	lastGetOwner    string
	lastListOwner   string
	lastListIsAdmin bool
	lastActorID     string
	lastIsAdmin     bool
	lastData        models.Share
}

func (m *mockShares) CreateShare(ctx context.Context, data models.Share, ownerID string) (*models.Share, error) {
	m.lastData = data
	m.lastActorID = ownerID
	return m.created, m.createErr
}
func (m *mockShares) GetShareByID(ctx context.Context, id, ownerID string) (*models.Share, error) {
	m.lastGetID = id
	m.lastGetOwner = ownerID
	return m.share, m.shareErr
}
func (m *mockShares) GetAllShares(ctx context.Context, ownerID string, isAdmin bool) ([]models.Share, error) {
	m.lastListOwner = ownerID
	m.lastListIsAdmin = isAdmin
	return m.list, m.listErr
}
func (m *mockShares) UpdateShare(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (*models.Share, error) {
	m.lastData = data
	m.lastActorID = actorID
	m.lastIsAdmin = isAdmin
	return m.updated, m.updateErr
}
func (m *mockShares) DeleteShare(ctx context.Context, id, actorID string, isAdmin bool) error {
	m.lastActorID = actorID
	m.lastIsAdmin = isAdmin
	return m.deleteErr
}

type mockUploads struct {
	valid      bool
	key        string
	uploadRes  service.UploadResult
	presign    *service.PresignResult
	presignErr error
	deleted    bool
}

func (m *mockUploads) IsValidImageType(contentType string) bool { return m.valid }
func (m *mockUploads) GenerateUniqueFileName(originalName string) string {
	return m.key
}
func (m *mockUploads) UploadFile(ctx context.Context, data []byte, key, contentType string) service.UploadResult {
	return m.uploadRes
}
func (m *mockUploads) PresignUpload(ctx context.Context, fileName, contentType string) (*service.PresignResult, error) {
	return m.presign, m.presignErr
}
func (m *mockUploads) DeleteFile(ctx context.Context, key string) bool { return m.deleted }

type mockExports struct {
	archive []byte
	err     error
}

func (m *mockExports) BuildArchive(ctx context.Context, share models.Share) ([]byte, error) {
	return m.archive, m.err
}

// newTestRouter wires a full router in test mode around the given services.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Get(logger.ErrorLevel), &config.Config{Env: "dev"})
	return h.InitRoutes()
}
