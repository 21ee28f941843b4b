package service

import (
	"context"
	"errors"

	"imageshare/internal/models"
	"imageshare/internal/repository"
)

// ErrNotFoundOrForbidden deliberately does not distinguish a missing
// share from one the actor may not touch.
var ErrNotFoundOrForbidden = errors.New("share not found or access denied")

// ErrTitleAndNameRequired is the validation failure for share writes.
var ErrTitleAndNameRequired = errors.New("title and creator name are required")

type ShareService struct {
	shares repository.Shares
}

func NewShareService(shares repository.Shares) *ShareService {
	return &ShareService{shares: shares}
}

// CreateShare stamps the owning user and returns the persisted record.
func (s *ShareService) CreateShare(ctx context.Context, data models.Share, ownerID string) (*models.Share, error) {
	if data.Title == "" || data.Name == "" {
		return nil, ErrTitleAndNameRequired
	}
	data.CreatorID = ownerID
	return s.shares.Create(ctx, data)
}

func (s *ShareService) GetShareByID(ctx context.Context, id, ownerID string) (*models.Share, error) {
	return s.shares.GetByID(ctx, id, ownerID)
}

func (s *ShareService) GetAllShares(ctx context.Context, ownerID string, isAdmin bool) ([]models.Share, error) {
	return s.shares.List(ctx, ownerID, isAdmin)
}

// UpdateShare merges the mutable fields when the actor owns the share
// or holds the admin role; otherwise fails with ErrNotFoundOrForbidden.
func (s *ShareService) UpdateShare(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (*models.Share, error) {
	if data.Title == "" || data.Name == "" {
		return nil, ErrTitleAndNameRequired
	}
	n, err := s.shares.Update(ctx, id, data, actorID, isAdmin)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFoundOrForbidden
	}
	return s.shares.GetByID(ctx, id, "")
}

// DeleteShare has the same ownership precondition as UpdateShare.
func (s *ShareService) DeleteShare(ctx context.Context, id, actorID string, isAdmin bool) error {
	n, err := s.shares.Delete(ctx, id, actorID, isAdmin)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFoundOrForbidden
	}
	return nil
}
