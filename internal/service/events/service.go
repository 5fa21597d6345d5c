package events

import (
	"context"
	"sort"
	"time"

	"github.com/oggyb/linkup/internal/app"
	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/geo"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/service/users"
	"github.com/oggyb/linkup/internal/utils/pagination"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

const (
	// DefaultRadiusMeters is the nearby search radius when none is given.
	DefaultRadiusMeters = 50000.0
	// DefaultPageLimit caps event pages when none is given.
	DefaultPageLimit = 20
	// previewParticipants is how many joiners ride along on a detail view.
	previewParticipants = 5
)

// Input carries the fields a client may set when creating an event.
type Input struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Location        string     `json:"location"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	DateTime        time.Time  `json:"dateTime" binding:"required"`
	EndDateTime     *time.Time `json:"endDateTime"`
	Price           float64    `json:"price"`
	ImageURL        string     `json:"imageUrl"`
	IsOnline        bool       `json:"isOnline"`
	MaxParticipants *int       `json:"maxParticipants"`
	MinAge          *int       `json:"minAge"`
	MaxAge          *int       `json:"maxAge"`
}

// Patch carries a partial update. Nil members are left untouched.
type Patch struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Category        *string    `json:"category"`
	Location        *string    `json:"location"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	DateTime        *time.Time `json:"dateTime"`
	EndDateTime     *time.Time `json:"endDateTime"`
	Price           *float64   `json:"price"`
	ImageURL        *string    `json:"imageUrl"`
	IsOnline        *bool      `json:"isOnline"`
	MaxParticipants *int       `json:"maxParticipants"`
	MinAge          *int       `json:"minAge"`
	MaxAge          *int       `json:"maxAge"`
}

// View is the event shape returned to clients.
type View struct {
	ID               uint64        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Category         string        `json:"category,omitempty"`
	Location         string        `json:"location,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	DateTime         time.Time     `json:"dateTime"`
	EndDateTime      *time.Time    `json:"endDateTime,omitempty"`
	Price            float64       `json:"price"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	IsOnline         bool          `json:"isOnline"`
	Status           string        `json:"status"`
	MaxParticipants  *int          `json:"maxParticipants,omitempty"`
	MinAge           *int          `json:"minAge,omitempty"`
	MaxAge           *int          `json:"maxAge,omitempty"`
	CreatedBy        *users.Public `json:"createdBy,omitempty"`
	ParticipantCount int64         `json:"participantCount"`
	DistanceMeters   *float64      `json:"distanceMeters,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// Detail is View plus viewer-specific and preview data for a single event.
type Detail struct {
	View
	Participants []ParticipantView `json:"participants"`
	IsJoined     bool              `json:"isJoined"`
	JoinStatus   string            `json:"joinStatus,omitempty"`
}

// ParticipantView is one joiner on an event.
type ParticipantView struct {
	User     users.Public `json:"user"`
	Status   string       `json:"status"`
	JoinedAt time.Time    `json:"joinedAt"`
}

func viewFrom(event *db.Event) View {
	v := View{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Category:        event.Category,
		Location:        event.Location,
		Latitude:        event.Latitude,
		Longitude:       event.Longitude,
		DateTime:        event.DateTime,
		EndDateTime:     event.EndDateTime,
		Price:           event.Price,
		ImageURL:        event.ImageURL,
		IsOnline:        event.IsOnline,
		Status:          string(event.Status),
		MaxParticipants: event.MaxParticipants,
		MinAge:          event.MinAge,
		MaxAge:          event.MaxAge,
		CreatedAt:       event.CreatedAt,
	}
	if event.CreatedBy != nil {
		pub := users.PublicFrom(event.CreatedBy)
		v.CreatedBy = &pub
	}
	return v
}

// Service implements event publishing, proximity search and participation.
type Service struct {
	appCtx          *app.AppContext
	eventRepo       *repository.EventRepository
	participantRepo *repository.ParticipantRepository
}

// NewService creates the events service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:          appCtx,
		eventRepo:       repository.NewEventRepository(appCtx.DB),
		participantRepo: repository.NewParticipantRepository(appCtx.DB),
	}
}

// Create publishes a new event for the user. Events go live immediately;
// moderation demotes them to REJECTED after the fact rather than gating
// publication.
func (s *Service) Create(ctx context.Context, userID uint64, input Input) (*View, error) {
	if input.Title == "" {
		return nil, svcErr.Validation("title is required")
	}
	if input.DateTime.IsZero() {
		return nil, svcErr.Validation("dateTime is required")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, svcErr.Validation("latitude and longitude must be set together")
	}
	if input.Latitude != nil && !geo.ValidLatLon(*input.Latitude, *input.Longitude) {
		return nil, svcErr.Validation("coordinates out of range")
	}
	if input.MinAge != nil && input.MaxAge != nil && *input.MinAge > *input.MaxAge {
		return nil, svcErr.Validation("minAge must not exceed maxAge")
	}

	event := db.Event{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Location:        input.Location,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		DateTime:        input.DateTime,
		EndDateTime:     input.EndDateTime,
		Price:           input.Price,
		ImageURL:        input.ImageURL,
		IsOnline:        input.IsOnline,
		Status:          db.EventApproved,
		MaxParticipants: input.MaxParticipants,
		MinAge:          input.MinAge,
		MaxAge:          input.MaxAge,
		CreatedByID:     &userID,
	}
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Logger.Info("event created", "event_id", event.ID, "user_id", userID)

	view := viewFrom(&event)
	return &view, nil
}

// GetByID returns the event detail for the viewer, including the first
// few participants and whether the viewer joined.
func (s *Service) GetByID(ctx context.Context, id, viewerID uint64) (*Detail, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if event == nil {
		return nil, svcErr.NotFound("event not found")
	}

	count, err := s.participantRepo.Count(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	rows, _, err := s.participantRepo.List(ctx, id, previewParticipants, 0)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	preview := make([]ParticipantView, 0, len(rows))
	for i := range rows {
		preview = append(preview, ParticipantView{
			User:     users.PublicFrom(&rows[i].User),
			Status:   string(rows[i].Status),
			JoinedAt: rows[i].CreatedAt,
		})
	}

	detail := Detail{View: viewFrom(event), Participants: preview}
	detail.ParticipantCount = count

	own, err := s.participantRepo.Get(ctx, viewerID, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if own != nil {
		detail.IsJoined = true
		detail.JoinStatus = string(own.Status)
	}
	return &detail, nil
}

// Update applies a partial update. Only the creator may edit.
func (s *Service) Update(ctx context.Context, userID, eventID uint64, patch Patch) (*View, error) {
	event, err := s.requireOwned(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, svcErr.Validation("title must not be empty")
		}
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Latitude != nil || patch.Longitude != nil {
		if patch.Latitude == nil || patch.Longitude == nil {
			return nil, svcErr.Validation("latitude and longitude must be set together")
		}
		if !geo.ValidLatLon(*patch.Latitude, *patch.Longitude) {
			return nil, svcErr.Validation("coordinates out of range")
		}
		fields["latitude"] = *patch.Latitude
		fields["longitude"] = *patch.Longitude
	}
	if patch.DateTime != nil {
		fields["date_time"] = *patch.DateTime
	}
	if patch.EndDateTime != nil {
		fields["end_date_time"] = *patch.EndDateTime
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.IsOnline != nil {
		fields["is_online"] = *patch.IsOnline
	}
	if patch.MaxParticipants != nil {
		fields["max_participants"] = *patch.MaxParticipants
	}
	if patch.MinAge != nil {
		fields["min_age"] = *patch.MinAge
	}
	if patch.MaxAge != nil {
		fields["max_age"] = *patch.MaxAge
	}
	if len(fields) == 0 {
		view := viewFrom(event)
		return &view, nil
	}

	if err := s.eventRepo.Update(ctx, eventID, fields); err != nil {
		return nil, svcErr.Map(err)
	}

	updated, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	view := viewFrom(updated)
	return &view, nil
}

// Delete removes the event and its participant rows. Creator only.
func (s *Service) Delete(ctx context.Context, userID, eventID uint64) error {
	if _, err := s.requireOwned(ctx, userID, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Info("event deleted", "event_id", eventID, "user_id", userID)
	return nil
}

func (s *Service) requireOwned(ctx context.Context, userID, eventID uint64) (*db.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if event == nil {
		return nil, svcErr.NotFound("event not found")
	}
	if event.CreatedByID == nil || *event.CreatedByID != userID {
		return nil, svcErr.Forbidden("only the event creator may do this")
	}
	return event, nil
}

// Nearby returns approved offline events within maxDistanceMeters of the
// point, closest first.
//
// Behavior:
//   - Coordinates are validated before any store access.
//   - The geodesic distance is exact (haversine), unlike candidate
//     discovery which settles for a bounding box.
//   - Each hit is annotated with its distance and participant count.
//   - Results are paginated after sorting; the page carries total and
//     totalPages.
func (s *Service) Nearby(
	ctx context.Context,
	lat, lon, maxDistanceMeters float64,
	category string,
	page, limit int,
) ([]View, *pagination.Page, error) {
	if !geo.ValidLatLon(lat, lon) {
		return nil, nil, svcErr.Validation("coordinates out of range")
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = DefaultRadiusMeters
	}

	approved := db.EventApproved
	offline := false
	rows, err := s.eventRepo.FindWithCoords(ctx, repository.EventFilter{
		Status:   &approved,
		IsOnline: &offline,
		Category: category,
	})
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}

	type hit struct {
		event    *db.Event
		distance float64
	}
	hits := make([]hit, 0, len(rows))
	for i := range rows {
		d := geo.DistanceMeters(lat, lon, *rows[i].Latitude, *rows[i].Longitude)
		if d <= maxDistanceMeters {
			hits = append(hits, hit{event: &rows[i], distance: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	pg := pagination.NewPage(page, limit, DefaultPageLimit, int64(len(hits)))
	start := pg.Offset()
	if start > len(hits) {
		start = len(hits)
	}
	end := start + pg.Limit
	if end > len(hits) {
		end = len(hits)
	}

	views := make([]View, 0, end-start)
	for _, h := range hits[start:end] {
		v := viewFrom(h.event)
		d := h.distance
		v.DistanceMeters = &d
		count, cerr := s.participantRepo.Count(ctx, h.event.ID)
		if cerr != nil {
			return nil, nil, svcErr.Map(cerr)
		}
		v.ParticipantCount = count
		views = append(views, v)
	}
	return views, &pg, nil
}

// ListByUser returns the user's own events newest-first.
func (s *Service) ListByUser(ctx context.Context, userID uint64, page, limit int) ([]View, *pagination.Page, error) {
	pg := pagination.NewPage(page, limit, DefaultPageLimit, 0)
	rows, total, err := s.eventRepo.ListByCreator(ctx, userID, pg.Limit, pg.Offset())
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	pg = pagination.NewPage(page, limit, DefaultPageLimit, total)

	views := make([]View, 0, len(rows))
	for i := range rows {
		views = append(views, viewFrom(&rows[i]))
	}
	return views, &pg, nil
}

// Join records the user's participation. Joining again just updates the
// status.
//
// Behavior:
//   - Unapproved events cannot be joined, Validation.
//   - A full event (max participants reached, user not already in) is a
//     Conflict.
func (s *Service) Join(ctx context.Context, userID, eventID uint64, status db.ParticipantStatus) error {
	if status != db.ParticipantGoing && status != db.ParticipantInterested {
		return svcErr.Validation("status must be GOING or INTERESTED")
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return svcErr.Map(err)
	}
	if event == nil {
		return svcErr.NotFound("event not found")
	}
	if event.Status != db.EventApproved {
		return svcErr.Validation("event is not open for participation")
	}

	if event.MaxParticipants != nil {
		existing, gerr := s.participantRepo.Get(ctx, userID, eventID)
		if gerr != nil {
			return svcErr.Map(gerr)
		}
		if existing == nil {
			count, cerr := s.participantRepo.Count(ctx, eventID)
			if cerr != nil {
				return svcErr.Map(cerr)
			}
			if count >= int64(*event.MaxParticipants) {
				return svcErr.Conflict("event is full")
			}
		}
	}

	if err := s.participantRepo.Upsert(ctx, userID, eventID, status); err != nil {
		return svcErr.Map(err)
	}
	return nil
}

// Leave removes the user's participation. NotFound when they never joined.
func (s *Service) Leave(ctx context.Context, userID, eventID uint64) error {
	if err := s.participantRepo.Delete(ctx, userID, eventID); err != nil {
		return svcErr.Map(err)
	}
	return nil
}

// Participants lists who joined the event, oldest joiner first.
func (s *Service) Participants(ctx context.Context, eventID uint64, page, limit int) ([]ParticipantView, *pagination.Page, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	if event == nil {
		return nil, nil, svcErr.NotFound("event not found")
	}

	pg := pagination.NewPage(page, limit, DefaultPageLimit, 0)
	rows, total, err := s.participantRepo.List(ctx, eventID, pg.Limit, pg.Offset())
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	pg = pagination.NewPage(page, limit, DefaultPageLimit, total)

	views := make([]ParticipantView, 0, len(rows))
	for i := range rows {
		views = append(views, ParticipantView{
			User:     users.PublicFrom(&rows[i].User),
			Status:   string(rows[i].Status),
			JoinedAt: rows[i].CreatedAt,
		})
	}
	return views, &pg, nil
}
