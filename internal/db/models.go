package db

import (
	"time"
)

// MatchAction is a directional swipe action between two users.
type MatchAction string

const (
	ActionLike      MatchAction = "LIKE"
	ActionDislike   MatchAction = "DISLIKE"
	ActionSuperLike MatchAction = "SUPER_LIKE"
)

// IsLikeClass reports whether the action counts toward mutuality.
func (a MatchAction) IsLikeClass() bool {
	return a == ActionLike || a == ActionSuperLike
}

// Valid reports whether a is one of the known actions.
func (a MatchAction) Valid() bool {
	switch a {
	case ActionLike, ActionDislike, ActionSuperLike:
		return true
	}
	return false
}

// FriendRequestStatus is the lifecycle state of a friend request row.
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestDeclined FriendRequestStatus = "DECLINED"
	FriendRequestCanceled FriendRequestStatus = "CANCELED"
)

// EventStatus is the moderation state of an event.
type EventStatus string

const (
	EventPending  EventStatus = "PENDING"
	EventApproved EventStatus = "APPROVED"
	EventRejected EventStatus = "REJECTED"
)

// ParticipantStatus is a user's declared relation to an event.
type ParticipantStatus string

const (
	ParticipantGoing      ParticipantStatus = "GOING"
	ParticipantInterested ParticipantStatus = "INTERESTED"
)

// User table. ExternalUID is the verified auth-provider subject; the rest
// is profile state owned by the user themselves.
type User struct {
	ID           uint64   `gorm:"primaryKey;autoIncrement"`
	ExternalUID  string   `gorm:"uniqueIndex;size:128;not null"`
	Email        string   `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string   `gorm:"size:255"`
	DisplayName  string   `gorm:"size:128"`
	Bio          string   `gorm:"size:1024"`
	Interests    []string `gorm:"serializer:json"`
	Age          *int
	Gender       string `gorm:"size:16"`
	PhotoURL     string `gorm:"size:512"`

	LastLatitude       *float64 `gorm:"index:idx_users_last_lat"`
	LastLongitude      *float64 `gorm:"index:idx_users_last_lon"`
	LastLocationUpdate *time.Time

	IsProfileVisible      bool `gorm:"default:true"`
	MinAge                *int
	MaxAge                *int
	IsOnboardingCompleted bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Match holds both directional actions for one pair of users in a single
// row. UserA is whoever acted first; the counterpart's action lands in the
// B slot of the same row.
//
// PairLowID/PairHighID are the canonical (min,max) ordering of the two ids.
// The unique index on them guarantees one row per unordered pair even when
// both users act at the same instant: the losing insert hits the index and
// is retried as an update.
//
// Rows are never deleted. A later dislike flips IsMutual back to false and
// clears MatchedAt; the action history itself stays.
type Match struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	UserAID    uint64 `gorm:"not null;index"`
	UserBID    uint64 `gorm:"not null;index"`
	PairLowID  uint64 `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	PairHighID uint64 `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`

	UserAAction *MatchAction `gorm:"size:16"`
	UserBAction *MatchAction `gorm:"size:16"`

	IsMutual  bool `gorm:"not null;default:false;index"`
	MatchedAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index"`

	UserA User `gorm:"foreignKey:UserAID"`
	UserB User `gorm:"foreignKey:UserBID"`
}

// ActionBy returns the action recorded for userID in this match, or nil
// when userID has not acted (or is not part of the pair).
func (m *Match) ActionBy(userID uint64) *MatchAction {
	switch userID {
	case m.UserAID:
		return m.UserAAction
	case m.UserBID:
		return m.UserBAction
	}
	return nil
}

// OtherUserID returns the counterpart of userID in this match pair.
func (m *Match) OtherUserID(userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}

// FriendRequest is a directional request row, unique per ordered
// (requester, addressee) pair. Terminal rows (declined/canceled) are reset
// back to PENDING on re-request instead of inserting duplicates.
type FriendRequest struct {
	ID          uint64              `gorm:"primaryKey;autoIncrement"`
	RequesterID uint64              `gorm:"not null;uniqueIndex:idx_friend_request_pair,priority:1"`
	AddresseeID uint64              `gorm:"not null;uniqueIndex:idx_friend_request_pair,priority:2;index"`
	Status      FriendRequestStatus `gorm:"size:16;not null;default:PENDING"`
	CreatedAt   time.Time           `gorm:"autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime"`
	RespondedAt *time.Time

	Requester User `gorm:"foreignKey:RequesterID"`
	Addressee User `gorm:"foreignKey:AddresseeID"`
}

// Friendship is the confirmed symmetric relation, keyed canonically with
// User1ID < User2ID so one unordered pair maps to exactly one row.
// Created only by accepting a friend request.
type Friendship struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:idx_friendship_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:idx_friendship_pair,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User1 User `gorm:"foreignKey:User1ID"`
	User2 User `gorm:"foreignKey:User2ID"`
}

// OtherUserID returns the counterpart of userID in this friendship.
func (f *Friendship) OtherUserID(userID uint64) uint64 {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}

// Event table. CreatedByID is nullable: deleting a user keeps their events.
type Event struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"size:4096"`
	Category    string `gorm:"size:64;index"`

	Location  string   `gorm:"size:512"`
	Latitude  *float64 `gorm:"index"`
	Longitude *float64 `gorm:"index"`

	DateTime    time.Time `gorm:"not null"`
	EndDateTime *time.Time

	Price    float64
	ImageURL string `gorm:"size:512"`
	IsOnline bool   `gorm:"not null;default:false;index"`

	Status          EventStatus `gorm:"size:16;not null;default:PENDING;index"`
	RejectionReason *string     `gorm:"size:512"`

	MaxParticipants *int
	MinAge          *int
	MaxAge          *int

	CreatedByID *uint64
	CreatedBy   *User `gorm:"foreignKey:CreatedByID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Participant is the join record between a user and an event, unique per
// (user, event). Upserted on join, deleted on cancellation.
type Participant struct {
	ID      uint64            `gorm:"primaryKey;autoIncrement"`
	UserID  uint64            `gorm:"not null;uniqueIndex:idx_participant_pair,priority:1"`
	EventID uint64            `gorm:"not null;uniqueIndex:idx_participant_pair,priority:2;index"`
	Status  ParticipantStatus `gorm:"size:16;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID"`
}

// PairOrder returns the two ids in canonical (min,max) order.
func PairOrder(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}
