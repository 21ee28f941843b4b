package service

import (
	"context"

	"imageshare/internal/config"
	"imageshare/internal/logger"
	"imageshare/internal/models"
	"imageshare/internal/repository"
	"imageshare/internal/storage"
)

// UserPatch carries partial user updates; empty strings mean "leave as is".
type UserPatch struct {
	Username string
	Password string
	Role     string
}

type Authorization interface {
	CreateUser(ctx context.Context, username, password, role string) (*models.User, error)
	ValidateCredentials(ctx context.Context, username, password string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateToken(identity models.Identity) (string, error)
	// VerifyToken returns nil for any invalid or expired token.
	VerifyToken(token string) *models.Identity
	EnsureRootAdmin(ctx context.Context) error
}

type Shares interface {
	CreateShare(ctx context.Context, data models.Share, ownerID string) (*models.Share, error)
	// GetShareByID returns (nil, nil) when nothing matches. A non-empty
	// ownerID restricts the read to that creator's shares.
	GetShareByID(ctx context.Context, id, ownerID string) (*models.Share, error)
	GetAllShares(ctx context.Context, ownerID string, isAdmin bool) ([]models.Share, error)
	UpdateShare(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (*models.Share, error)
	DeleteShare(ctx context.Context, id, actorID string, isAdmin bool) error
}

// Uploads validates, keys and stores incoming images.
type Uploads interface {
	IsValidImageType(contentType string) bool
	GenerateUniqueFileName(originalName string) string
	UploadFile(ctx context.Context, data []byte, key, contentType string) UploadResult
	PresignUpload(ctx context.Context, fileName, contentType string) (*PresignResult, error)
	DeleteFile(ctx context.Context, key string) bool
}

// Exports assembles zip archives from a share's images.
type Exports interface {
	BuildArchive(ctx context.Context, share models.Share) ([]byte, error)
}

type Service struct {
	Authorization
	Shares
	Uploads
	Exports
}

func NewService(repos *repository.Repository, store storage.Storage, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, cfg, log),
		Shares:        NewShareService(repos.Shares),
		Uploads:       NewUploadService(store, log),
		Exports:       NewExportService(log),
	}
}
