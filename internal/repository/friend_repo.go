package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/linkup/internal/db"
)

// RequestDirection selects which side of pending requests to list.
type RequestDirection string

const (
	DirectionIncoming RequestDirection = "incoming"
	DirectionOutgoing RequestDirection = "outgoing"
)

// FriendRepository provides data access for FriendRequest and Friendship
// rows. All multi-write transitions go through Transaction-scoped helpers
// so the accept path stays atomic.
type FriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new repository bound to the given DB connection.
func NewFriendRepository(database *gorm.DB) *FriendRepository {
	return &FriendRepository{db: database}
}

// GetFriendship returns the friendship row for an unordered pair, or nil.
func (r *FriendRepository) GetFriendship(ctx context.Context, userID, otherID uint64) (*db.Friendship, error) {
	low, high := db.PairOrder(userID, otherID)

	var friendship db.Friendship
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", low, high).
		First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetPendingRequest returns the PENDING row requester→addressee, or nil.
func (r *FriendRepository) GetPendingRequest(ctx context.Context, requesterID, addresseeID uint64) (*db.FriendRequest, error) {
	var request db.FriendRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND addressee_id = ? AND status = ?",
			requesterID, addresseeID, db.FriendRequestPending).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// UpsertPendingRequest creates the requester→addressee row as PENDING, or
// resets a prior terminal row (declined/canceled) back to PENDING with
// RespondedAt cleared. The unique constraint on the ordered pair keeps this
// a single row no matter how many times the requester retries.
func (r *FriendRepository) UpsertPendingRequest(ctx context.Context, requesterID, addresseeID uint64) error {
	request := db.FriendRequest{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      db.FriendRequestPending,
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "requester_id"}, {Name: "addressee_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":       db.FriendRequestPending,
				"responded_at": nil,
			}),
		}).
		Create(&request).Error
}

// ResolveRequest moves a pending row into a terminal status and stamps
// RespondedAt.
func (r *FriendRepository) ResolveRequest(ctx context.Context, requestID uint64, status db.FriendRequestStatus) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.FriendRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": now,
		}).Error
}

// AcceptRequest atomically marks the row ACCEPTED and upserts the
// canonical friendship. The friendship insert ignores duplicates so two
// near-simultaneous accepts for the same pair both succeed with exactly
// one row.
func (r *FriendRepository) AcceptRequest(ctx context.Context, requestID uint64, userID, otherID uint64) error {
	low, high := db.PairOrder(userID, otherID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		if err := tx.Model(&db.FriendRequest{}).
			Where("id = ?", requestID).
			Updates(map[string]interface{}{
				"status":       db.FriendRequestAccepted,
				"responded_at": now,
			}).Error; err != nil {
			return err
		}

		friendship := db.Friendship{User1ID: low, User2ID: high}
		return tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
				DoNothing: true,
			}).
			Create(&friendship).Error
	})
}

// ListPendingRequests returns PENDING rows where userID is the addressee
// (incoming) or the requester (outgoing), newest first, with the other
// party preloaded.
func (r *FriendRepository) ListPendingRequests(ctx context.Context, userID uint64, direction RequestDirection) ([]db.FriendRequest, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", db.FriendRequestPending).
		Order("created_at DESC")

	switch direction {
	case DirectionIncoming:
		query = query.Where("addressee_id = ?", userID).Preload("Requester")
	case DirectionOutgoing:
		query = query.Where("requester_id = ?", userID).Preload("Addressee")
	}

	var requests []db.FriendRequest
	err := query.Find(&requests).Error
	return requests, err
}

// ListFriendships returns every friendship where userID occupies either
// canonical slot, newest first, both users preloaded.
func (r *FriendRepository) ListFriendships(ctx context.Context, userID uint64) ([]db.Friendship, error) {
	var friendships []db.Friendship
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}
