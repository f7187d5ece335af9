package types

import (
	"time"

	"github.com/google/uuid"
)

// Brief statuses follow the generation workflow: a brief is drafted, its
// outline is edited, then the article is written and refined.
const (
	BriefStatusDraft    = "draft"
	BriefStatusOutlined = "outlined"
	BriefStatusWritten  = "written"
	BriefStatusArchived = "archived"
)

// Brief represents a content brief document: the topic, its generated
// outline, and the article text produced from it.
type Brief struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Language  string    `json:"language,omitempty"`
	Status    string    `json:"status"`
	Outline   *Outline  `json:"outline,omitempty"`
	Article   string    `json:"article,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
