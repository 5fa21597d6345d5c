package events

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/utils/respond"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

func pathEventID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("eventId"), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation("invalid event id")
	}
	return id, nil
}

func queryPageLimit(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	return page, limit
}

func (s *Service) handleCreate(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var input Input
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.Error(c, svcErr.Validation("invalid event payload"))
		return
	}

	view, err := s.Create(c.Request.Context(), userID, input)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, gin.H{"event": view})
}

func (s *Service) handleGet(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	detail, err := s.GetByID(c.Request.Context(), eventID, userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"event": detail})
}

func (s *Service) handleUpdate(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, svcErr.Validation("invalid event payload"))
		return
	}

	view, err := s.Update(c.Request.Context(), userID, eventID, patch)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"event": view})
}

func (s *Service) handleDelete(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := s.Delete(c.Request.Context(), userID, eventID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OKWithMessage(c, "event deleted", nil)
}

func (s *Service) handleNearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lonErr != nil {
		respond.Error(c, svcErr.Validation("latitude and longitude are required"))
		return
	}

	maxDistance := DefaultRadiusMeters
	if v := c.Query("maxDistance"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			maxDistance = parsed
		}
	}
	page, limit := queryPageLimit(c)

	views, pg, err := s.Nearby(c.Request.Context(), lat, lon, maxDistance, c.Query("category"), page, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"events": views, "pagination": pg})
}

func (s *Service) handleListMine(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	page, limit := queryPageLimit(c)

	views, pg, err := s.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"events": views, "pagination": pg})
}

func (s *Service) handleJoin(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	_ = c.ShouldBindJSON(&body)
	status := db.ParticipantStatus(body.Status)
	if body.Status == "" {
		status = db.ParticipantGoing
	}

	if err := s.Join(c.Request.Context(), userID, eventID, status); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OKWithMessage(c, "joined event", gin.H{"status": status})
}

func (s *Service) handleLeave(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := s.Leave(c.Request.Context(), userID, eventID); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OKWithMessage(c, "left event", nil)
}

func (s *Service) handleParticipants(c *gin.Context) {
	eventID, err := pathEventID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	page, limit := queryPageLimit(c)

	views, pg, err := s.Participants(c.Request.Context(), eventID, page, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"participants": views, "pagination": pg})
}
