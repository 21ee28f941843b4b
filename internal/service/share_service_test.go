package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"imageshare/internal/models"
)

// mockShareRepo is an in-memory stand-in for repository.Shares with the
// same owner-filtered mutation semantics.
type mockShareRepo struct {
	shares map[string]*models.Share
	nextID int

	updateErr error
}

func newMockShareRepo() *mockShareRepo {
	return &mockShareRepo{shares: map[string]*models.Share{}}
}

func (m *mockShareRepo) Create(ctx context.Context, share models.Share) (*models.Share, error) {
	m.nextID++
	share.ID = "s" + string(rune('0'+m.nextID))
	share.CreatedAt = time.Now()
	share.Normalize()
	cp := share
	m.shares[share.ID] = &cp
	return &share, nil
}

func (m *mockShareRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Share, error) {
	s, ok := m.shares[id]
	if !ok {
		return nil, nil
	}
	if ownerID != "" && s.CreatorID != ownerID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *mockShareRepo) List(ctx context.Context, ownerID string, all bool) ([]models.Share, error) {
	out := []models.Share{}
	for _, s := range m.shares {
		if all || s.CreatorID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockShareRepo) Update(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	s, ok := m.shares[id]
	if !ok || (!isAdmin && s.CreatorID != actorID) {
		return 0, nil
	}
	s.Title = data.Title
	s.Name = data.Name
	s.Description = data.Description
	s.Images = data.Images
	now := time.Now()
	s.UpdatedAt = &now
	return 1, nil
}

func (m *mockShareRepo) Delete(ctx context.Context, id, actorID string, isAdmin bool) (int64, error) {
	s, ok := m.shares[id]
	if !ok || (!isAdmin && s.CreatorID != actorID) {
		return 0, nil
	}
	delete(m.shares, id)
	return 1, nil
}

func TestShareService_CreateValidation(t *testing.T) {
	svc := NewShareService(newMockShareRepo())
	ctx := context.Background()

	cases := []struct {
		name  string
		share models.Share
	}{
		{"missing title", models.Share{Name: "alice"}},
		{"missing name", models.Share{Title: "holiday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateShare(ctx, tc.share, "u1"); !errors.Is(err, ErrTitleAndNameRequired) {
				t.Fatalf("expected ErrTitleAndNameRequired, got %v", err)
			}
		})
	}
}

func TestShareService_CreateReadRoundTrip(t *testing.T) {
	svc := NewShareService(newMockShareRepo())
	ctx := context.Background()

	created, err := svc.CreateShare(ctx, models.Share{
		Title:       "holiday",
		Name:        "alice",
		Description: "beach photos",
		Images:      []models.Image{{URL: "http://x/a.png", PreviewURL: "http://x/a.png"}},
	}, "u1")
	if err != nil {
		t.Fatalf("CreateShare: %v", err)
	}
	if created.CreatorID != "u1" {
		t.Fatalf("expected creator u1, got %q", created.CreatorID)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be stamped")
	}

	got, err := svc.GetShareByID(ctx, created.ID, "")
	if err != nil || got == nil {
		t.Fatalf("read back: share=%v err=%v", got, err)
	}
	if got.Title != "holiday" || got.Name != "alice" || got.Description != "beach photos" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.Images) != 1 || got.Images[0].URL != "http://x/a.png" {
		t.Fatalf("image list mismatch: %+v", got.Images)
	}
}

func TestShareService_OwnershipMatrix(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		actorID string
		isAdmin bool
		wantOK  bool
	}{
		{"owner may mutate", "owner", false, true},
		{"admin may mutate", "someone-else", true, true},
		{"stranger may not", "someone-else", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockShareRepo()
			svc := NewShareService(repo)
			created, _ := svc.CreateShare(ctx, models.Share{Title: "t", Name: "n"}, "owner")

			_, updateErr := svc.UpdateShare(ctx, created.ID, models.Share{Title: "t2", Name: "n2"}, tc.actorID, tc.isAdmin)
			deleteErr := svc.DeleteShare(ctx, created.ID, tc.actorID, tc.isAdmin)

			if tc.wantOK {
				if updateErr != nil || deleteErr != nil {
					t.Fatalf("expected success, got update=%v delete=%v", updateErr, deleteErr)
				}
				return
			}
			// both mutations must fail identically
			if !errors.Is(updateErr, ErrNotFoundOrForbidden) || !errors.Is(deleteErr, ErrNotFoundOrForbidden) {
				t.Fatalf("expected ErrNotFoundOrForbidden for both, got update=%v delete=%v", updateErr, deleteErr)
			}
		})
	}
}

func TestShareService_UpdateAbsentShare(t *testing.T) {
	svc := NewShareService(newMockShareRepo())
	_, err := svc.UpdateShare(context.Background(), "missing", models.Share{Title: "t", Name: "n"}, "u1", true)
	if !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}
}

func TestShareService_OwnerScopedList(t *testing.T) {
	repo := newMockShareRepo()
	svc := NewShareService(repo)
	ctx := context.Background()

	svc.CreateShare(ctx, models.Share{Title: "a", Name: "n"}, "u1")
	svc.CreateShare(ctx, models.Share{Title: "b", Name: "n"}, "u2")

	own, err := svc.GetAllShares(ctx, "u1", false)
	if err != nil {
		t.Fatalf("GetAllShares: %v", err)
	}
	if len(own) != 1 || own[0].Title != "a" {
		t.Fatalf("expected only u1's share, got %+v", own)
	}

	all, err := svc.GetAllShares(ctx, "u1", true)
	if err != nil {
		t.Fatalf("GetAllShares admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected all shares for admin, got %d", len(all))
	}
}
