package discover

import (
	"context"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/geo"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/service/users"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

const (
	// DefaultRadiusKm is the candidate search radius when none is given.
	DefaultRadiusKm = 50.0
	// DefaultLimit caps a candidate page when none is given.
	DefaultLimit = 20
)

// Service finds nearby match candidates for a user. The search runs over
// a lat/lon bounding box, not a true circle: events get the exact
// geodesic filter, the potentially much larger user table gets the cheap
// indexed range query. Corner false positives are accepted.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewService creates the discover service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// NearbyCandidates returns up to limit eligible users around the
// requester.
//
// Behavior:
//   - Explicit coordinates win; otherwise the requester's stored last
//     location is used. Neither on file → empty result, not an error.
//   - Candidates must not be the requester, must have completed
//     onboarding, must be visible, and must sit inside the bounding box.
//   - The requester's age-preference bounds apply when set.
func (s *Service) NearbyCandidates(
	ctx context.Context,
	requesterID uint64,
	lat, lon *float64,
	radiusKm float64,
	limit int,
) ([]users.Public, error) {
	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if requester == nil {
		return nil, svcErr.NotFound("user not found")
	}

	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	searchLat := requester.LastLatitude
	searchLon := requester.LastLongitude
	if lat != nil && lon != nil {
		if !geo.ValidLatLon(*lat, *lon) {
			return nil, svcErr.Validation("coordinates out of range")
		}
		searchLat, searchLon = lat, lon
	}

	if searchLat == nil || searchLon == nil {
		s.appCtx.Logger.Debug("no location for candidate search", "user_id", requesterID)
		return []users.Public{}, nil
	}

	box := geo.BoxAround(*searchLat, *searchLon, radiusKm)

	candidates, err := s.userRepo.FindCandidates(ctx, requesterID, box, requester.MinAge, requester.MaxAge, limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	result := make([]users.Public, 0, len(candidates))
	for i := range candidates {
		result = append(result, users.PublicFrom(&candidates[i]))
	}
	return result, nil
}
