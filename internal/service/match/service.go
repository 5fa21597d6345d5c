package match

import (
	"context"
	"time"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/cache"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/service/users"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

// Record is the wire shape of a match row.
type Record struct {
	ID          uint64          `json:"id"`
	UserAID     uint64          `json:"userAId"`
	UserBID     uint64          `json:"userBId"`
	UserAAction *db.MatchAction `json:"userAAction,omitempty"`
	UserBAction *db.MatchAction `json:"userBAction,omitempty"`
	IsMutual    bool            `json:"isMutual"`
	MatchedAt   *time.Time      `json:"matchedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func recordFrom(m *db.Match) Record {
	return Record{
		ID:          m.ID,
		UserAID:     m.UserAID,
		UserBID:     m.UserBID,
		UserAAction: m.UserAAction,
		UserBAction: m.UserBAction,
		IsMutual:    m.IsMutual,
		MatchedAt:   m.MatchedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Service implements the match engine: directional actions, mutuality
// detection and the listings built on top of them.
type Service struct {
	appCtx    *app.AppContext
	matchRepo *repository.MatchRepository
	userRepo  *repository.UserRepository
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		userRepo:  repository.NewUserRepository(appCtx.DB),
	}
}

// RecordAction stores actorID's action toward targetID.
//
// Behavior:
//   - Self-action and unknown actions are rejected before any store access.
//   - Missing target → NotFound.
//   - The pair row is created or its actor slot updated (see repository);
//     mutuality and matchedAt are recomputed there.
//   - The target's cached admirer count is nudged (+1 like-class, -1
//     dislike) with a TTL refresh; cache errors are ignored.
//
// Returns the resulting record and whether this action just made the pair
// mutual (for "it's a match" messaging).
func (s *Service) RecordAction(ctx context.Context, actorID, targetID uint64, action db.MatchAction) (*Record, bool, error) {
	if !action.Valid() {
		return nil, false, svcErr.Validation("action must be LIKE, DISLIKE, or SUPER_LIKE")
	}
	if actorID == targetID {
		return nil, false, svcErr.Validation("cannot act on yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, false, svcErr.Map(err)
	}
	if target == nil {
		return nil, false, svcErr.NotFound("target user not found")
	}

	match, becameMutual, err := s.matchRepo.RecordAction(ctx, actorID, targetID, action)
	if err != nil {
		return nil, false, svcErr.Map(err)
	}

	key := s.appCtx.RedisCache.KeyForAdmirerCount(targetID)
	if action.IsLikeClass() {
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	} else {
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
	}
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, cache.AdmirerCountTTL).Err()

	if becameMutual {
		s.appCtx.Logger.Info("new mutual match", "user_a", match.UserAID, "user_b", match.UserBID)
	}

	rec := recordFrom(match)
	return &rec, becameMutual, nil
}

// ListMutualMatches returns the other party of every mutual match
// involving userID.
func (s *Service) ListMutualMatches(ctx context.Context, userID uint64) ([]users.Public, error) {
	matches, err := s.matchRepo.GetMutualMatches(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	result := make([]users.Public, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		other := m.UserB
		if m.UserBID == userID {
			other = m.UserA
		}
		result = append(result, users.PublicFrom(&other))
	}
	return result, nil
}

// ListActions returns the users that userID acted on with the given
// action, newest first. Filtering is on userID's OWN slot: a LIKE history
// shows everyone they liked regardless of the counterpart's answer.
func (s *Service) ListActions(
	ctx context.Context,
	userID uint64,
	action db.MatchAction,
	limit int,
	pageToken *string,
) ([]users.Public, *string, error) {
	if !action.Valid() {
		return nil, nil, svcErr.Validation("action must be LIKE, DISLIKE, or SUPER_LIKE")
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	matches, nextToken, err := s.matchRepo.GetActionsByUser(ctx, userID, action, limit, pageToken)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}

	result := make([]users.Public, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		other := m.UserB
		if m.UserBID == userID {
			other = m.UserA
		}
		result = append(result, users.PublicFrom(&other))
	}
	return result, nextToken, nil
}

// CountAdmirers returns how many users hold a like-class action toward
// userID. Cache-first: Redis with a 1h TTL, DB fallback on a miss.
func (s *Service) CountAdmirers(ctx context.Context, userID uint64) (int64, error) {
	if cached, ok, err := s.appCtx.RedisCache.GetAdmirerCount(ctx, userID); err == nil && ok {
		return cached, nil
	}

	count, err := s.matchRepo.CountAdmirers(ctx, userID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	_ = s.appCtx.RedisCache.SetAdmirerCount(ctx, userID, count)
	return count, nil
}
