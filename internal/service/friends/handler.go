package friends

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/linkup/internal/middleware"
	"github.com/oggyb/linkup/internal/repository"
	"github.com/oggyb/linkup/internal/utils/respond"

	svcErr "github.com/oggyb/linkup/internal/errors"
)

func pathUserID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation("userId must be a valid id")
	}
	return id, nil
}

func (s *Service) handleStatus(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	otherID, err := pathUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	status, err := s.StatusBetween(c.Request.Context(), userID, otherID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (s *Service) handleSend(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	otherID, err := pathUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	status, err := s.SendRequest(c.Request.Context(), userID, otherID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (s *Service) handleCancel(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	otherID, err := pathUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	status, err := s.CancelRequest(c.Request.Context(), userID, otherID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (s *Service) handleAccept(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	requesterID, err := pathUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	status, err := s.AcceptRequest(c.Request.Context(), userID, requesterID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (s *Service) handleDecline(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	requesterID, err := pathUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	status, err := s.DeclineRequest(c.Request.Context(), userID, requesterID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, gin.H{"status": status})
}

func (s *Service) handleListRequests(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	direction := repository.RequestDirection(c.DefaultQuery("direction", "incoming"))

	requests, err := s.ListRequests(c.Request.Context(), userID, direction)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, requests)
}

func (s *Service) handleListFriends(c *gin.Context) {
	userID, err := middleware.RequireUserID(c)
	if err != nil {
		respond.Error(c, err)
		return
	}

	friends, err := s.ListFriends(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, friends)
}
