package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"imageshare/internal/models"

	"github.com/google/uuid"
)

type ShareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

var _ Shares = (*ShareRepository)(nil)

const (
	insertShareSQL = `INSERT INTO shares (id, title, name, description, images, creator_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectShareByIDSQL      = `SELECT id, title, name, description, images, creator_id, created_at, updated_at FROM shares WHERE id = ?`
	selectShareByIDOwnerSQL = `SELECT id, title, name, description, images, creator_id, created_at, updated_at FROM shares WHERE id = ? AND creator_id = ?`

	selectAllSharesSQL   = `SELECT id, title, name, description, images, creator_id, created_at, updated_at FROM shares ORDER BY created_at DESC`
	selectOwnerSharesSQL = `SELECT id, title, name, description, images, creator_id, created_at, updated_at FROM shares WHERE creator_id = ? ORDER BY created_at DESC`

	// The owner-filtered mutation statements fold the ownership check
	// into the WHERE clause: zero rows affected does not reveal whether
	// the share was absent or owned by someone else.
	updateShareSQL      = `UPDATE shares SET title = ?, name = ?, description = ?, images = ?, updated_at = ? WHERE id = ?`
	updateShareOwnerSQL = `UPDATE shares SET title = ?, name = ?, description = ?, images = ?, updated_at = ? WHERE id = ? AND creator_id = ?`
	deleteShareSQL      = `DELETE FROM shares WHERE id = ?`
	deleteShareOwnerSQL = `DELETE FROM shares WHERE id = ? AND creator_id = ?`
)

// Create inserts a new share with a server-assigned id, stamping the
// owning user and creation time.
func (r *ShareRepository) Create(ctx context.Context, share models.Share) (*models.Share, error) {
	share.ID = uuid.NewString()
	share.CreatedAt = time.Now().UTC()
	share.Normalize()

	imgs, err := json.Marshal(share.Images)
	if err != nil {
		return nil, fmt.Errorf("marshal images for share %q: %w", share.ID, err)
	}
	if _, err := r.db.ExecContext(ctx, insertShareSQL,
		share.ID, share.Title, share.Name, share.Description, string(imgs), share.CreatorID, share.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert share %q: %w", share.ID, err)
	}
	return &share, nil
}

// GetByID fetches a share; a non-empty ownerID restricts the match to
// that creator. Returns (nil, nil) if nothing matches.
func (r *ShareRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Share, error) {
	var row *sql.Row
	if ownerID != "" {
		row = r.db.QueryRowContext(ctx, selectShareByIDOwnerSQL, id, ownerID)
	} else {
		row = r.db.QueryRowContext(ctx, selectShareByIDSQL, id)
	}
	s, err := scanShare(row)
	if err != nil {
		return nil, fmt.Errorf("select share %q: %w", id, err)
	}
	return s, nil
}

func (r *ShareRepository) List(ctx context.Context, ownerID string, all bool) ([]models.Share, error) {
	var rows *sql.Rows
	var err error
	if all {
		rows, err = r.db.QueryContext(ctx, selectAllSharesSQL)
	} else {
		rows, err = r.db.QueryContext(ctx, selectOwnerSharesSQL, ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("select shares: %w", err)
	}
	defer rows.Close()

	shares := []models.Share{}
	for rows.Next() {
		var s models.Share
		var updated sql.NullTime
		var imgs string
		if err := rows.Scan(&s.ID, &s.Title, &s.Name, &s.Description, &imgs, &s.CreatorID, &s.CreatedAt, &updated); err != nil {
			return nil, fmt.Errorf("scan share row: %w", err)
		}
		if err := json.Unmarshal([]byte(imgs), &s.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images for share %q: %w", s.ID, err)
		}
		if updated.Valid {
			t := updated.Time
			s.UpdatedAt = &t
		}
		s.Normalize()
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}
	return shares, nil
}

// Update replaces the mutable fields and stamps updated_at. Admin
// actors bypass the creator filter.
func (r *ShareRepository) Update(ctx context.Context, id string, data models.Share, actorID string, isAdmin bool) (int64, error) {
	data.Normalize()
	imgs, err := json.Marshal(data.Images)
	if err != nil {
		return 0, fmt.Errorf("marshal images for share %q: %w", id, err)
	}
	now := time.Now().UTC()

	var res sql.Result
	if isAdmin {
		res, err = r.db.ExecContext(ctx, updateShareSQL, data.Title, data.Name, data.Description, string(imgs), now, id)
	} else {
		res, err = r.db.ExecContext(ctx, updateShareOwnerSQL, data.Title, data.Name, data.Description, string(imgs), now, id, actorID)
	}
	if err != nil {
		return 0, fmt.Errorf("update share %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for share %q: %w", id, err)
	}
	return n, nil
}

func (r *ShareRepository) Delete(ctx context.Context, id, actorID string, isAdmin bool) (int64, error) {
	var res sql.Result
	var err error
	if isAdmin {
		res, err = r.db.ExecContext(ctx, deleteShareSQL, id)
	} else {
		res, err = r.db.ExecContext(ctx, deleteShareOwnerSQL, id, actorID)
	}
	if err != nil {
		return 0, fmt.Errorf("delete share %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for share %q: %w", id, err)
	}
	return n, nil
}

func scanShare(row *sql.Row) (*models.Share, error) {
	var s models.Share
	var updated sql.NullTime
	var imgs string
	err := row.Scan(&s.ID, &s.Title, &s.Name, &s.Description, &imgs, &s.CreatorID, &s.CreatedAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(imgs), &s.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if updated.Valid {
		t := updated.Time
		s.UpdatedAt = &t
	}
	s.Normalize()
	return &s, nil
}
