package likecache

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"glimpse/internal/models"
	"glimpse/internal/observability"
)

// LocalStore persists liked sets in the service's own database, one row per
// authenticated user. It is the durable fallback when Redis is unavailable.
type LocalStore struct {
	db *gorm.DB
}

// NewLocalStore returns a Store backed by the given database handle.
func NewLocalStore(db *gorm.DB) *LocalStore {
	return &LocalStore{db: db}
}

// GetLiked reads and parses the persisted set. A missing row or unparsable
// payload reads as the empty set.
func (s *LocalStore) GetLiked(ctx context.Context, userID string) Set {
	if userID == "" || s.db == nil {
		return Set{}
	}
	var row models.LikeSet
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Set{}
	}
	if err != nil {
		observability.GlobalLogger.Warn("like store read failed",
			slog.String("user_id", userID), slog.String("error", err.Error()))
		return Set{}
	}
	liked, ok := decode([]byte(row.PostIDs))
	if !ok {
		return Set{}
	}
	return liked
}

// SetLiked upserts the user's row with the serialized set.
func (s *LocalStore) SetLiked(ctx context.Context, userID string, liked Set) {
	if userID == "" || s.db == nil {
		return
	}
	payload, err := encode(liked)
	if err != nil {
		return
	}
	row := models.LikeSet{UserID: userID, PostIDs: string(payload)}
	err = s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		observability.GlobalLogger.Warn("like store write failed",
			slog.String("user_id", userID), slog.String("error", err.Error()))
	}
}
