package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/brief-studio/internal/types"
)

// CreateBrief inserts a new draft brief and returns its ID.
func (db *DB) CreateBrief(ctx context.Context, userID uuid.UUID, title, language string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO briefs (user_id, title, language, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, title, language, types.BriefStatusDraft,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create brief: %w", err)
	}
	return id, nil
}

// GetBrief retrieves a brief by ID. Returns nil, nil when not found.
func (db *DB) GetBrief(ctx context.Context, id uuid.UUID) (*BriefRecord, error) {
	var b BriefRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, language, status,
		        COALESCE(outline, 'null'::jsonb), COALESCE(article, ''),
		        created_at, updated_at
		 FROM briefs WHERE id = $1`,
		id,
	).Scan(&b.ID, &b.UserID, &b.Title, &b.Language, &b.Status,
		&b.Outline, &b.Article, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get brief: %w", err)
	}
	return &b, nil
}

// ListBriefs returns all briefs for a user, newest first, without outline or
// article payloads.
func (db *DB) ListBriefs(ctx context.Context, userID uuid.UUID) ([]BriefRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, title, language, status, created_at, updated_at
		 FROM briefs WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list briefs: %w", err)
	}
	defer rows.Close()

	var briefs []BriefRecord
	for rows.Next() {
		var b BriefRecord
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Language, &b.Status,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brief: %w", err)
		}
		briefs = append(briefs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate briefs: %w", err)
	}
	return briefs, nil
}

// SaveOutline stores the outline JSONB for a brief, replacing any previous
// outline wholesale (the tree is mutated copy-on-write upstream and written
// back as a unit).
func (db *DB) SaveOutline(ctx context.Context, briefID uuid.UUID, outline *types.Outline) error {
	payload, err := json.Marshal(outline)
	if err != nil {
		return fmt.Errorf("failed to marshal outline: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE briefs SET outline = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		payload, types.BriefStatusOutlined, briefID,
	)
	if err != nil {
		return fmt.Errorf("failed to save outline: %w", err)
	}
	return nil
}

// SaveArticle stores the article text for a brief.
func (db *DB) SaveArticle(ctx context.Context, briefID uuid.UUID, article string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE briefs SET article = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		article, types.BriefStatusWritten, briefID,
	)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

// UpdateBriefStatus sets the workflow status of a brief.
func (db *DB) UpdateBriefStatus(ctx context.Context, briefID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE briefs SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, briefID,
	)
	if err != nil {
		return fmt.Errorf("failed to update brief status: %w", err)
	}
	return nil
}

// DeleteBrief removes a brief.
func (db *DB) DeleteBrief(ctx context.Context, briefID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM briefs WHERE id = $1`, briefID)
	if err != nil {
		return fmt.Errorf("failed to delete brief: %w", err)
	}
	return nil
}

// OutlineDoc decodes the brief's stored outline payload. Returns nil when
// the brief has no outline yet.
func (b *BriefRecord) OutlineDoc() (*types.Outline, error) {
	if len(b.Outline) == 0 || string(b.Outline) == "null" {
		return nil, nil
	}
	var outline types.Outline
	if err := json.Unmarshal(b.Outline, &outline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outline: %w", err)
	}
	return &outline, nil
}
