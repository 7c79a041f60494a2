package comment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Comment represents the comments table. Annotation payloads are stored
// as an opaque JSON blob and passed through unexamined; the server only
// tracks the identifier and the document the annotation belongs to.
type Comment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Content string    `gorm:"not null" json:"content"`

	AuthorName     string `gorm:"not null" json:"authorName"`
	AuthorAvatar   string `json:"authorAvatar,omitempty"`
	AuthorInitials string `json:"authorInitials"`

	// ParentID is nil for top-level comments.
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parentId,omitempty"`

	DocumentID  string `gorm:"index" json:"documentId,omitempty"`
	DocumentSrc string `json:"documentSrc,omitempty"`

	Resolved bool `gorm:"default:false" json:"resolved"`

	Annotation json.RawMessage `gorm:"type:jsonb" json:"annotation,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}
