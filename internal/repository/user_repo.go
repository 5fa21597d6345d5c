package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/geo"
)

// UserRepository provides data access for the User model, including the
// bounding-box candidate query used by discovery.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID returns the user or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByExternalUID resolves the internal user for a verified auth subject.
// Returns nil when the subject has not been provisioned yet.
func (r *UserRepository) GetByExternalUID(ctx context.Context, externalUID string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("external_uid = ?", externalUID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with this email or nil.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update applies a column map to the user.
func (r *UserRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateLocation stores the user's last known position.
func (r *UserRepository) UpdateLocation(ctx context.Context, id uint64, lat, lon float64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_latitude":        lat,
			"last_longitude":       lon,
			"last_location_update": now,
		}).Error
}

// FindCandidates returns up to limit users inside the bounding box who are
// eligible for discovery: not the requester, onboarding completed, profile
// visible, and (when bounds are given) age within [minAge, maxAge].
//
// The box is a coarse prefilter over the indexed lat/lon columns; callers
// accept the few false positives near the corners.
func (r *UserRepository) FindCandidates(
	ctx context.Context,
	requesterID uint64,
	box geo.BoundingBox,
	minAge, maxAge *int,
	limit int,
) ([]db.User, error) {
	query := r.db.WithContext(ctx).
		Where("id <> ?", requesterID).
		Where("is_onboarding_completed = ?", true).
		Where("is_profile_visible = ?", true).
		Where("last_latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("last_longitude BETWEEN ? AND ?", box.MinLon, box.MaxLon).
		Limit(limit)

	if minAge != nil {
		query = query.Where("age >= ?", *minAge)
	}
	if maxAge != nil {
		query = query.Where("age <= ?", *maxAge)
	}

	var candidates []db.User
	err := query.Find(&candidates).Error
	return candidates, err
}
