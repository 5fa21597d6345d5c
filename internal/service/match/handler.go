package match

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/db"
	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/utils/respond"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

type actionRequest struct {
	TargetUserID uint64 `json:"targetUserId" binding:"required"`
}

// handleAction is shared by the like/dislike/super-like endpoints; the
// action is fixed per route.
func (s *Service) handleAction(action db.MatchAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.RequireUserID(c)
		if err != nil {
			respond.Error(c, err)
			return
		}

		var req actionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, svcErr.Validation("targetUserId is required"))
			return
		}

		record, becameMutual, err := s.RecordAction(c.Request.Context(), userID, req.TargetUserID, action)
		if err != nil {
			respond.Error(c, err)
			return
		}

		message := "Action recorded"
		if becameMutual {
			message = "It's a match!"
		}
		respond.OKWithMessage(c, message, gin.H{
			"match":    record,
			"isMutual": record.IsMutual,
		})
	}
}

func (s *Service) handleListMutual(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	matches, err := s.ListMutualMatches(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, matches)
}

func (s *Service) handleListActions(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	action := db.MatchAction(c.Query("action"))

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	var pageToken *string
	if raw := c.Query("pageToken"); raw != "" {
		pageToken = &raw
	}

	result, nextToken, err := s.ListActions(c.Request.Context(), userID, action, limit, pageToken)
	if err != nil {
		respond.Error(c, err)
		return
	}

	payload := gin.H{"users": result}
	if nextToken != nil {
		payload["nextPageToken"] = *nextToken
	}
	respond.OK(c, payload)
}

func (s *Service) handleCountAdmirers(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	count, err := s.CountAdmirers(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"count": count})
}
