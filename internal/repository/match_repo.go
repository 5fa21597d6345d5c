package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/utils/pagination"
)

// MatchRepository provides data access for the Match model: the two-slot
// pair rows that record like/dislike/super-like actions between users.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// RecordAction inserts or updates the actor's action toward the target.
//
// Behavior:
//   - One row per unordered pair; whoever acts first becomes slot A, the
//     counterpart's action lands in slot B of the same row.
//   - Mutuality is recomputed on every write: both slots like-class.
//     MatchedAt is stamped when a row turns mutual and cleared when it
//     stops being mutual.
//   - Two users creating the pair at the same instant race on the
//     canonical (min,max) unique index; the loser re-reads the winner's
//     row and records its action as an update.
//
// Returns the resulting row and whether this write made it newly mutual.
func (r *MatchRepository) RecordAction(
	ctx context.Context,
	actorID, targetID uint64,
	action db.MatchAction,
) (*db.Match, bool, error) {
	match, err := r.GetByPair(ctx, actorID, targetID)
	if err != nil {
		return nil, false, err
	}

	if match == nil {
		low, high := db.PairOrder(actorID, targetID)
		created := db.Match{
			UserAID:     actorID,
			UserBID:     targetID,
			PairLowID:   low,
			PairHighID:  high,
			UserAAction: &action,
		}
		err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&created).Error
		if err == nil {
			return &created, false, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// Lost the create race: the counterpart inserted first. Fall
		// through and update their row instead.
		match, err = r.GetByPair(ctx, actorID, targetID)
		if err != nil {
			return nil, false, err
		}
		if match == nil {
			return nil, false, gorm.ErrRecordNotFound
		}
	}

	wasMutual := match.IsMutual

	var other *db.MatchAction
	if match.UserAID == actorID {
		match.UserAAction = &action
		other = match.UserBAction
	} else {
		match.UserBAction = &action
		other = match.UserAAction
	}

	match.IsMutual = action.IsLikeClass() && other != nil && other.IsLikeClass()
	if match.IsMutual && !wasMutual {
		now := time.Now().UTC()
		match.MatchedAt = &now
	}
	if !match.IsMutual {
		match.MatchedAt = nil
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(match).Error; err != nil {
		return nil, false, err
	}

	return match, match.IsMutual && !wasMutual, nil
}

// GetByPair looks up the match row between two users in either stored
// direction. Returns nil without error when no row exists.
func (r *MatchRepository) GetByPair(ctx context.Context, userID, otherID uint64) (*db.Match, error) {
	low, high := db.PairOrder(userID, otherID)

	var match db.Match
	err := r.db.WithContext(ctx).
		Where("pair_low_id = ? AND pair_high_id = ?", low, high).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetMutualMatches returns all mutual rows involving userID with both
// parties preloaded, newest match first.
func (r *MatchRepository) GetMutualMatches(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Preload("UserA").
		Preload("UserB").
		Where("(user_a_id = ? OR user_b_id = ?) AND is_mutual = ?", userID, userID, true).
		Order("matched_at DESC").
		Find(&matches).Error
	return matches, err
}

// GetActionsByUser returns up to limit rows where userID's OWN slot equals
// action, most recently updated first. The counterpart's action is
// irrelevant here: a user's LIKE history lists people they liked no matter
// how those people responded.
//
// Supports cursor-based pagination via pageToken (see utils/pagination).
func (r *MatchRepository) GetActionsByUser(
	ctx context.Context,
	userID uint64,
	action db.MatchAction,
	limit int,
	pageToken *string,
) ([]db.Match, *string, error) {
	cursor, err := pagination.Decode(derefString(pageToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("UserA").
		Preload("UserB").
		Where(
			"(user_a_id = ? AND user_a_action = ?) OR (user_b_id = ? AND user_b_action = ?)",
			userID, action, userID, action,
		).
		Order("updated_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.MatchID > 0 && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(updated_at < ? OR (updated_at = ? AND id < ?))",
			ts, ts, cursor.MatchID,
		)
	}

	var matches []db.Match
	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MatchID:     last.ID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountAdmirers returns how many users currently hold a like-class action
// toward userID. Used with the Redis cache (DB is the fallback).
func (r *MatchRepository) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	likeClass := []db.MatchAction{db.ActionLike, db.ActionSuperLike}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where(
			"(user_b_id = ? AND user_a_action IN ?) OR (user_a_id = ? AND user_b_action IN ?)",
			userID, likeClass, userID, likeClass,
		).
		Count(&count).Error
	return count, err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
