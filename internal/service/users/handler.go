package users

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/utils/respond"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

// profile is the owner-facing view of a user row: public subset plus the
// private preference and state fields.
type profile struct {
	Public
	Email                 string   `json:"email"`
	LastLatitude          *float64 `json:"lastLatitude,omitempty"`
	LastLongitude         *float64 `json:"lastLongitude,omitempty"`
	MinAge                *int     `json:"minAge,omitempty"`
	MaxAge                *int     `json:"maxAge,omitempty"`
	IsProfileVisible      bool     `json:"isProfileVisible"`
	IsOnboardingCompleted bool     `json:"isOnboardingCompleted"`
}

func profileFrom(u *db.User) profile {
	return profile{
		Public:                PublicFrom(u),
		Email:                 u.Email,
		LastLatitude:          u.LastLatitude,
		LastLongitude:         u.LastLongitude,
		MinAge:                u.MinAge,
		MaxAge:                u.MaxAge,
		IsProfileVisible:      u.IsProfileVisible,
		IsOnboardingCompleted: u.IsOnboardingCompleted,
	}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// handleSync provisions the token subject. The only endpoint that works
// before the user row exists, so it reads the claims directly.
func (s *Service) handleSync(c *gin.Context) {
	claims := middleware.TokenClaims(c)
	if claims == nil {
		respond.Error(c, svcErr.Unauthorized("missing token claims"))
		return
	}

	var input SyncInput
	if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
		respond.Error(c, svcErr.Validation("malformed request body"))
		return
	}

	user, err := s.Sync(c.Request.Context(), claims.Subject, claims.Email, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, profileFrom(user))
}

func (s *Service) handleMe(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	user, err := s.Get(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, profileFrom(user))
}

func (s *Service) handleUpdateProfile(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var patch ProfileUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, svcErr.Validation("malformed request body"))
		return
	}

	user, err := s.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, profileFrom(user))
}

func (s *Service) handleUpdateLocation(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, svcErr.Validation("latitude and longitude are required"))
		return
	}

	if err := s.UpdateLocation(c.Request.Context(), userID, *req.Latitude, *req.Longitude); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OKWithMessage(c, "Location updated", nil)
}
