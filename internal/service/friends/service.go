package friends

import (
	"context"
	"time"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/service/users"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

// Status is the relationship between two users from the viewer's side.
type Status string

const (
	StatusNone     Status = "NONE"
	StatusOutgoing Status = "OUTGOING_REQUEST"
	StatusIncoming Status = "INCOMING_REQUEST"
	StatusFriends  Status = "FRIENDS"
)

// RequestView is the wire shape of a pending request with the other
// party's identity attached.
type RequestView struct {
	User      users.Public `json:"user"`
	CreatedAt time.Time    `json:"createdAt"`
}

// FriendView is the wire shape of a confirmed friendship.
type FriendView struct {
	User  users.Public `json:"user"`
	Since time.Time    `json:"since"`
}

// Service implements the friend-request state machine and the friendship
// listings derived from it.
type Service struct {
	appCtx     *app.AppContext
	friendRepo *repository.FriendRepository
	userRepo   *repository.UserRepository
}

// NewService creates the friends service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		friendRepo: repository.NewFriendRepository(appCtx.DB),
		userRepo:   repository.NewUserRepository(appCtx.DB),
	}
}

// StatusBetween computes the viewer-relative state. Friendship wins over
// any stale request rows; otherwise a pending row decides the direction.
func (s *Service) StatusBetween(ctx context.Context, viewerID, otherID uint64) (Status, error) {
	friendship, err := s.friendRepo.GetFriendship(ctx, viewerID, otherID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if friendship != nil {
		return StatusFriends, nil
	}

	outgoing, err := s.friendRepo.GetPendingRequest(ctx, viewerID, otherID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if outgoing != nil {
		return StatusOutgoing, nil
	}

	incoming, err := s.friendRepo.GetPendingRequest(ctx, otherID, viewerID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if incoming != nil {
		return StatusIncoming, nil
	}

	return StatusNone, nil
}

// SendRequest moves the relationship toward FRIENDS from the sender's side.
//
// Behavior:
//   - Self-request → Validation; unknown target → NotFound.
//   - Already friends → no-op, FRIENDS.
//   - The target already has a pending request to the sender → accept it
//     instead of creating a crossed pair of pending rows; both sides land
//     on FRIENDS immediately.
//   - An own pending request exists → no-op, OUTGOING_REQUEST.
//   - Otherwise create the PENDING row, or reset a declined/canceled row
//     back to PENDING (one row per ordered pair, always).
func (s *Service) SendRequest(ctx context.Context, fromID, toID uint64) (Status, error) {
	if fromID == toID {
		return StatusNone, svcErr.Validation("cannot send a friend request to yourself")
	}

	target, err := s.userRepo.GetByID(ctx, toID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if target == nil {
		return StatusNone, svcErr.NotFound("target user not found")
	}

	current, err := s.StatusBetween(ctx, fromID, toID)
	if err != nil {
		return StatusNone, err
	}

	switch current {
	case StatusFriends:
		return StatusFriends, nil
	case StatusIncoming:
		return s.AcceptRequest(ctx, fromID, toID)
	case StatusOutgoing:
		return StatusOutgoing, nil
	}

	if err := s.friendRepo.UpsertPendingRequest(ctx, fromID, toID); err != nil {
		return StatusNone, svcErr.Map(err)
	}
	return StatusOutgoing, nil
}

// CancelRequest withdraws the sender's own pending request.
func (s *Service) CancelRequest(ctx context.Context, fromID, toID uint64) (Status, error) {
	pending, err := s.friendRepo.GetPendingRequest(ctx, fromID, toID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if pending == nil {
		return StatusNone, svcErr.NotFound("no pending outgoing request")
	}

	if err := s.friendRepo.ResolveRequest(ctx, pending.ID, db.FriendRequestCanceled); err != nil {
		return StatusNone, svcErr.Map(err)
	}
	return StatusNone, nil
}

// AcceptRequest confirms a pending incoming request. The row update and
// the friendship insert run in one transaction; the friendship upsert is
// idempotent so a concurrent double-accept still yields exactly one row.
func (s *Service) AcceptRequest(ctx context.Context, currentID, requesterID uint64) (Status, error) {
	if currentID == requesterID {
		return StatusNone, svcErr.Validation("cannot accept a request from yourself")
	}

	pending, err := s.friendRepo.GetPendingRequest(ctx, requesterID, currentID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if pending == nil {
		return StatusNone, svcErr.NotFound("no pending incoming request")
	}

	if err := s.friendRepo.AcceptRequest(ctx, pending.ID, currentID, requesterID); err != nil {
		return StatusNone, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("friendship confirmed", "user_a", currentID, "user_b", requesterID)
	return StatusFriends, nil
}

// DeclineRequest rejects a pending incoming request. No friendship row.
func (s *Service) DeclineRequest(ctx context.Context, currentID, requesterID uint64) (Status, error) {
	if currentID == requesterID {
		return StatusNone, svcErr.Validation("cannot decline a request from yourself")
	}

	pending, err := s.friendRepo.GetPendingRequest(ctx, requesterID, currentID)
	if err != nil {
		return StatusNone, svcErr.Map(err)
	}
	if pending == nil {
		return StatusNone, svcErr.NotFound("no pending incoming request")
	}

	if err := s.friendRepo.ResolveRequest(ctx, pending.ID, db.FriendRequestDeclined); err != nil {
		return StatusNone, svcErr.Map(err)
	}
	return StatusNone, nil
}

// ListRequests returns the user's pending requests in one direction with
// the other party's identity resolved.
func (s *Service) ListRequests(ctx context.Context, userID uint64, direction repository.RequestDirection) ([]RequestView, error) {
	if direction != repository.DirectionIncoming && direction != repository.DirectionOutgoing {
		return nil, svcErr.Validation("direction must be incoming or outgoing")
	}

	requests, err := s.friendRepo.ListPendingRequests(ctx, userID, direction)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	views := make([]RequestView, 0, len(requests))
	for i := range requests {
		req := &requests[i]
		other := &req.Requester
		if direction == repository.DirectionOutgoing {
			other = &req.Addressee
		}
		views = append(views, RequestView{
			User:      users.PublicFrom(other),
			CreatedAt: req.CreatedAt,
		})
	}
	return views, nil
}

// ListFriends returns every confirmed friend of userID.
func (s *Service) ListFriends(ctx context.Context, userID uint64) ([]FriendView, error) {
	friendships, err := s.friendRepo.ListFriendships(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	views := make([]FriendView, 0, len(friendships))
	for i := range friendships {
		f := &friendships[i]
		other := &f.User2
		if f.User2ID == userID {
			other = &f.User1
		}
		views = append(views, FriendView{
			User:  users.PublicFrom(other),
			Since: f.CreatedAt,
		})
	}
	return views, nil
}
