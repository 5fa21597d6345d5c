package discover

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/utils/respond"
)

func (s *Service) handleNearbyCandidates(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	var lat, lon *float64
	if v := c.Query("latitude"); v != "" {
		parsed, perr := strconv.ParseFloat(v, 64)
		if perr == nil {
			lat = &parsed
		}
	}
	if v := c.Query("longitude"); v != "" {
		parsed, perr := strconv.ParseFloat(v, 64)
		if perr == nil {
			lon = &parsed
		}
	}

	radiusKm := DefaultRadiusKm
	if v := c.Query("radius"); v != "" {
		if parsed, perr := strconv.ParseFloat(v, 64); perr == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	limit := DefaultLimit
	if v := c.Query("limit"); v != "" {
		if parsed, perr := strconv.Atoi(v); perr == nil && parsed > 0 {
			limit = parsed
		}
	}

	candidates, err := s.NearbyCandidates(c.Request.Context(), userID, lat, lon, radiusKm, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, gin.H{"users": candidates, "count": len(candidates)})
}
