package users

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/geo"
	"github.com/oggyb/linkup/internal/repository"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

// Public is the identity subset exposed to other users: what a match,
// friend listing, or event creator card is allowed to show.
type Public struct {
	ID          uint64   `json:"id"`
	DisplayName string   `json:"displayName"`
	Bio         string   `json:"bio,omitempty"`
	Interests   []string `json:"interests,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty"`
}

// PublicFrom projects a user row onto its public subset.
func PublicFrom(u *db.User) Public {
	return Public{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Interests:   u.Interests,
		Age:         u.Age,
		Gender:      u.Gender,
		PhotoURL:    u.PhotoURL,
	}
}

// SyncInput carries the optional profile attributes delivered with the
// identity token on first login.
type SyncInput struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// ProfileUpdate is the patch accepted by UpdateProfile. Nil fields are
// left untouched.
type ProfileUpdate struct {
	DisplayName           *string   `json:"displayName"`
	Bio                   *string   `json:"bio"`
	Interests             *[]string `json:"interests"`
	Age                   *int      `json:"age"`
	Gender                *string   `json:"gender"`
	PhotoURL              *string   `json:"photoUrl"`
	MinAge                *int      `json:"minAge"`
	MaxAge                *int      `json:"maxAge"`
	IsProfileVisible      *bool     `json:"isProfileVisible"`
	IsOnboardingCompleted *bool     `json:"isOnboardingCompleted"`
}

// Service owns user provisioning and profile/location updates.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewService creates the users service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// Sync provisions (or adopts) the user row for a verified token subject.
//
// Behavior:
//   - No row for the email → create one bound to the subject.
//   - Existing row without a subject (legacy import) → adopt it.
//   - Existing row with the same subject → return it unchanged.
//   - Existing row bound to a different subject → Conflict.
func (s *Service) Sync(ctx context.Context, externalUID, email string, input SyncInput) (*db.User, error) {
	if externalUID == "" || email == "" {
		return nil, svcErr.Validation("token subject and email are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	if existing != nil {
		if existing.ExternalUID == "" {
			if err := s.userRepo.Update(ctx, existing.ID, map[string]interface{}{
				"external_uid": externalUID,
			}); err != nil {
				return nil, svcErr.Map(err)
			}
			existing.ExternalUID = externalUID
			return existing, nil
		}
		if existing.ExternalUID == externalUID {
			return existing, nil
		}
		return nil, svcErr.Conflict("email already bound to another account")
	}

	user := &db.User{
		ExternalUID: externalUID,
		Email:       email,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("user provisioned", "user_id", user.ID)
	return user, nil
}

// Get returns the user or NotFound.
func (s *Service) Get(ctx context.Context, id uint64) (*db.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if user == nil {
		return nil, svcErr.NotFound("user not found")
	}
	return user, nil
}

// UpdateProfile applies the non-nil patch fields and returns the updated row.
func (s *Service) UpdateProfile(ctx context.Context, id uint64, patch ProfileUpdate) (*db.User, error) {
	fields := map[string]interface{}{}
	if patch.DisplayName != nil {
		fields["display_name"] = *patch.DisplayName
	}
	if patch.Bio != nil {
		fields["bio"] = *patch.Bio
	}
	if patch.Interests != nil {
		// Map updates bypass the gorm serializer, so store the JSON form
		// the serializer would have written.
		raw, err := json.Marshal(*patch.Interests)
		if err != nil {
			return nil, svcErr.Validation("invalid interests")
		}
		fields["interests"] = string(raw)
	}
	if patch.Age != nil {
		fields["age"] = *patch.Age
	}
	if patch.Gender != nil {
		fields["gender"] = *patch.Gender
	}
	if patch.PhotoURL != nil {
		fields["photo_url"] = *patch.PhotoURL
	}
	if patch.MinAge != nil {
		fields["min_age"] = *patch.MinAge
	}
	if patch.MaxAge != nil {
		fields["max_age"] = *patch.MaxAge
	}
	if patch.IsProfileVisible != nil {
		fields["is_profile_visible"] = *patch.IsProfileVisible
	}
	if patch.IsOnboardingCompleted != nil {
		fields["is_onboarding_completed"] = *patch.IsOnboardingCompleted
	}

	if patch.MinAge != nil && patch.MaxAge != nil && *patch.MinAge > *patch.MaxAge {
		return nil, svcErr.Validation("minAge must not exceed maxAge")
	}

	if len(fields) > 0 {
		if err := s.userRepo.Update(ctx, id, fields); err != nil {
			return nil, svcErr.Map(err)
		}
	}
	return s.Get(ctx, id)
}

// UpdateLocation stores the user's last reported position.
func (s *Service) UpdateLocation(ctx context.Context, id uint64, lat, lon float64) error {
	if !geo.ValidLatLon(lat, lon) {
		return svcErr.Validation("coordinates out of range")
	}
	if err := s.userRepo.UpdateLocation(ctx, id, lat, lon); err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("location updated", "user_id", id, "at", time.Now().UTC())
	return nil
}
