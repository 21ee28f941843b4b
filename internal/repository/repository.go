package repository

import (
	"context"
	"database/sql"

	"imageshare/internal/models"
)

// UserPatch carries partial updates; nil fields are left untouched.
type UserPatch struct {
	Username     *string
	PasswordHash *string
	Role         *string
}

type Users interface {
	Create(ctx context.Context, username, passwordHash, role string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, patch UserPatch) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int, error)
}

type Shares interface {
	Create(ctx context.Context, share models.Share) (*models.Share, error)
	// GetByID returns (nil, nil) when no row matches. A non-empty
	// ownerID restricts the lookup to shares created by that user.
	GetByID(ctx context.Context, id, ownerID string) (*models.Share, error)
	List(ctx context.Context, ownerID string, all bool) ([]models.Share, error)
	// Update and Delete report the number of affected rows. Zero means
	// the share is absent or the actor is not permitted; callers must
	// not distinguish the two.
	Update(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (int64, error)
	Delete(ctx context.Context, id, actorID string, isAdmin bool) (int64, error)
}

type Repository struct {
	Users  Users
	Shares Shares
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(database),
		Shares: NewShareRepository(database),
	}
}
