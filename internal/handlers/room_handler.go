package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/services"
)

type createRoomRequest struct {
	Title             string             `json:"title"`
	TimeSlot          string             `json:"timeSlot"`
	Menu              string             `json:"menu"`
	PriceRange        string             `json:"priceRange"`
	MaxCount          int                `json:"maxCount"`
	CreatorID         string             `json:"creatorId"`
	CreatorName       string             `json:"creatorName"`
	CreatorDepartment string             `json:"creatorDepartment"`
	Restaurant        *models.Restaurant `json:"restaurant"`
}

type joinRoomRequest struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type leaveRoomRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ListRooms returns every live room, or only joinable ones with ?status=open.
func (h *HandlerManager) ListRooms(c *gin.Context) {
	if c.Query("status") == string(models.RoomStatusOpen) {
		c.JSON(http.StatusOK, h.Rooms.ListOpenRooms())
		return
	}
	c.JSON(http.StatusOK, h.Rooms.ListActive())
}

func (h *HandlerManager) MyRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.Rooms.ListUserRooms(c.Param("userId")))
}

func (h *HandlerManager) GetRoom(c *gin.Context) {
	room, err := h.Rooms.GetRoom(c.Param("roomId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *HandlerManager) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	room, err := h.Rooms.CreateRoom(services.CreateRoomInput{
		Title:      req.Title,
		TimeSlot:   models.TimeSlot(req.TimeSlot),
		Menu:       models.Menu(req.Menu),
		PriceRange: models.PriceRange(req.PriceRange),
		MaxCount:   req.MaxCount,
		Restaurant: req.Restaurant,
		Creator: services.Participant{
			ID:         req.CreatorID,
			Name:       req.CreatorName,
			Department: req.CreatorDepartment,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *HandlerManager) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	room, err := h.Rooms.JoinRoom(c.Param("roomId"), services.Participant{
		ID:         req.UserID,
		Name:       req.Name,
		Department: req.Department,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// LeaveRoom answers with the updated room, or deleted=true when the last
// member left.
func (h *HandlerManager) LeaveRoom(c *gin.Context) {
	var req leaveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.Rooms.LeaveRoom(c.Param("roomId"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
