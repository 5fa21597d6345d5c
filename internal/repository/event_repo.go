package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/linkup/internal/db"
)

// EventFilter narrows event listings. Nil/empty members are skipped.
type EventFilter struct {
	Status   *db.EventStatus
	IsOnline *bool
	Category string
}

// EventRepository provides data access for the Event model.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new repository bound to the given DB connection.
func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{db: database}
}

// Create inserts an event row.
func (r *EventRepository) Create(ctx context.Context, event *db.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

// GetByID returns the event with its creator preloaded, or nil.
func (r *EventRepository) GetByID(ctx context.Context, id uint64) (*db.Event, error) {
	var event db.Event
	err := r.db.WithContext(ctx).Preload("CreatedBy").First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update applies a column map to the event.
func (r *EventRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes the event and its participant rows.
func (r *EventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&db.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Event{}, id).Error
	})
}

// FindWithCoords returns events matching the filter that have coordinates
// on file, creator preloaded. Event tables stay small enough that the
// exact geodesic radius filter runs in the service layer over this set.
func (r *EventRepository) FindWithCoords(ctx context.Context, filter EventFilter) ([]db.Event, error) {
	query := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IsOnline != nil {
		query = query.Where("is_online = ?", *filter.IsOnline)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var events []db.Event
	err := query.Find(&events).Error
	return events, err
}

// ListByCreator returns the user's events newest-first with a total count
// for pagination.
func (r *EventRepository) ListByCreator(ctx context.Context, userID uint64, limit, offset int) ([]db.Event, int64, error) {
	base := r.db.WithContext(ctx).Model(&db.Event{}).Where("created_by_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []db.Event
	err := r.db.WithContext(ctx).
		Where("created_by_id = ?", userID).
		Order("date_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, total, err
}
