package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/services"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/utils"
)

type joinMatchRequest struct {
	UserID      string              `json:"userId"`
	Name        string              `json:"name"`
	Department  string              `json:"department"`
	Gender      string              `json:"gender"`
	Age         int                 `json:"age"`
	Level       string              `json:"level"`
	TimeSlot    string              `json:"timeSlot"`
	PriceRange  string              `json:"priceRange"`
	Menu        string              `json:"menu"`
	Preferences *models.Preferences `json:"preferences"`
}

type cancelMatchRequest struct {
	MatchRequestID string `json:"matchRequestId" binding:"required"`
}

type joinMatchResponse struct {
	*services.SubmitResult
	Group *models.Group `json:"group,omitempty"`
}

type matchStatusResponse struct {
	*services.StatusResult
	Group *models.Group `json:"group,omitempty"`
}

// JoinMatch submits a match request; the response is either matched with
// the group or waiting with the request id to poll.
func (h *HandlerManager) JoinMatch(c *gin.Context) {
	var req joinMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	in := services.SubmitInput{
		RequesterID: req.UserID,
		DisplayName: req.Name,
		Department:  req.Department,
		Demographics: models.Demographics{
			Age:    req.Age,
			Gender: models.Gender(utils.NormalizeKey(req.Gender)),
			Level:  models.Level(utils.NormalizeKey(req.Level)),
		},
		HardConditions: models.HardConditions{
			TimeSlot:   models.TimeSlot(req.TimeSlot),
			PriceRange: models.PriceRange(req.PriceRange),
			Menu:       models.Menu(req.Menu),
		},
	}
	if req.Preferences != nil {
		in.Preferences = *req.Preferences
	}

	result, err := h.Matches.Submit(in)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := joinMatchResponse{SubmitResult: result}
	if result.Status == models.MatchStatusMatched {
		resp.Group = h.groupOrNil(result.GroupID)
	}
	c.JSON(http.StatusOK, resp)
}

// MatchStatus is polled by waiting clients. It also re-attempts matching.
func (h *HandlerManager) MatchStatus(c *gin.Context) {
	requestID := c.Query("matchRequestId")
	if requestID == "" {
		respondError(c, errors.New(errors.ErrCodeValidation, "matchRequestId is required"))
		return
	}

	var elapsed time.Duration
	if raw := c.Query("elapsedSeconds"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, errors.New(errors.ErrCodeValidation, "elapsedSeconds must be an integer"))
			return
		}
		if secs > 0 {
			elapsed = time.Duration(secs) * time.Second
		}
	}

	result := h.Matches.Status(requestID, elapsed)
	resp := matchStatusResponse{StatusResult: result}
	if result.Status == models.MatchStatusMatched {
		resp.Group = h.groupOrNil(result.GroupID)
	}
	c.JSON(http.StatusOK, resp)
}

// CancelMatch always succeeds, whatever state the request is in.
func (h *HandlerManager) CancelMatch(c *gin.Context) {
	var req cancelMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.Matches.Cancel(req.MatchRequestID)
	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "match request cancelled"})
}

func (h *HandlerManager) ActiveStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Activity.ActiveStatus(c.Param("userId")))
}

func (h *HandlerManager) groupOrNil(groupID string) *models.Group {
	group, err := h.Matches.GetGroup(groupID)
	if err != nil {
		return nil
	}
	return group
}
