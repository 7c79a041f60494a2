package database

import (
	"fmt"
	"log"

	"mediavault/internal/domain/comment"
	"mediavault/internal/domain/file"

	"github.com/google/uuid"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	OwnerID   string
	AccountID string
	Email     string
	FileCount int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		OwnerID:   "dev-user",
		AccountID: "dev-account",
		Email:     "dev@mediavault.local",
		FileCount: 5,
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Files    []file.File
	Comments []comment.Comment
}

// SeedDevelopment populates the database with sample files and comments
// so the UI and the listing endpoints have data to show.
func SeedDevelopment(cfg *SeedConfig) (*SeedResult, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not connected")
	}
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}
	log.Println("Starting database seeding...")

	samples := []struct {
		name string
		size int64
	}{
		{"quarterly-report.pdf", 1 << 20},
		{"team-photo.png", 3 << 20},
		{"launch-teaser.mp4", 120 << 20},
		{"voiceover.mp3", 8 << 20},
		{"notes.txt", 4 << 10},
	}
	if cfg.FileCount < len(samples) {
		samples = samples[:cfg.FileCount]
	}

	for _, s := range samples {
		ftype, ext := file.TypeForName(s.name)
		f := file.File{
			ID:         uuid.New(),
			Name:       s.name,
			Type:       ftype,
			Extension:  ext,
			Size:       s.size,
			StorageKey: fmt.Sprintf("files/%s/%s.%s", cfg.OwnerID, uuid.New(), ext),
			Owner:      cfg.OwnerID,
			AccountID:  cfg.AccountID,
			Users:      []string{cfg.Email},
		}
		if ftype == file.TypeVideo {
			f.MuxUploadID = "seed-upload-" + uuid.New().String()[:8]
			f.MuxStatus = file.StatusPreparing
		}
		if err := DB.Create(&f).Error; err != nil {
			return nil, fmt.Errorf("seeding file %s: %w", s.name, err)
		}
		result.Files = append(result.Files, f)
	}

	if len(result.Files) > 0 {
		doc := result.Files[0]
		top := comment.Comment{
			ID:             uuid.New(),
			Content:        "Can we double-check the figures on page 3?",
			AuthorName:     "Dev User",
			AuthorInitials: "DU",
			DocumentID:     doc.ID.String(),
			DocumentSrc:    doc.URL,
		}
		if err := DB.Create(&top).Error; err != nil {
			return nil, fmt.Errorf("seeding comment: %w", err)
		}
		reply := comment.Comment{
			ID:             uuid.New(),
			Content:        "Updated, see the new revision.",
			AuthorName:     "Dev User",
			AuthorInitials: "DU",
			ParentID:       &top.ID,
			DocumentID:     doc.ID.String(),
			DocumentSrc:    doc.URL,
		}
		if err := DB.Create(&reply).Error; err != nil {
			return nil, fmt.Errorf("seeding reply: %w", err)
		}
		result.Comments = append(result.Comments, top, reply)
	}

	log.Printf("Seeded %d files and %d comments", len(result.Files), len(result.Comments))
	return result, nil
}
