package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/linkup/internal/db"
)

// ParticipantRepository provides data access for event participation rows.
type ParticipantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new repository bound to the given DB connection.
func NewParticipantRepository(database *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{db: database}
}

// Upsert records the user's participation status, keyed on the
// (user, event) pair: joining twice updates the status in place.
func (r *ParticipantRepository) Upsert(ctx context.Context, userID, eventID uint64, status db.ParticipantStatus) error {
	participant := db.Participant{
		UserID:  userID,
		EventID: eventID,
		Status:  status,
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&participant).Error
}

// Get returns the participation row or nil.
func (r *ParticipantRepository) Get(ctx context.Context, userID, eventID uint64) (*db.Participant, error) {
	var participant db.Participant
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// Delete removes the participation row. Reports gorm.ErrRecordNotFound
// when there was nothing to remove so callers can surface a client error.
func (r *ParticipantRepository) Delete(ctx context.Context, userID, eventID uint64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&db.Participant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns how many users joined the event (any status).
func (r *ParticipantRepository) Count(ctx context.Context, eventID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Participant{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// List returns participants for an event with user identities preloaded,
// oldest joiner first, plus the total count for pagination.
func (r *ParticipantRepository) List(ctx context.Context, eventID uint64, limit, offset int) ([]db.Participant, int64, error) {
	total, err := r.Count(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}

	var participants []db.Participant
	err = r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&participants).Error
	return participants, total, err
}
