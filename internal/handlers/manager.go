package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/recommend"
	"github.com/mroshb/lunchmate/internal/services"
)

// ProfileDirectory is the read side of the identity provider.
type ProfileDirectory interface {
	GetProfile(id string) (*models.Profile, error)
	ListProfiles() ([]*models.Profile, error)
}

type HandlerManager struct {
	Matches     *services.MatchService
	Rooms       *services.RoomService
	Activity    *services.ActivityService
	Stats       *services.StatsService
	Recommender *recommend.Recommender
	Profiles    ProfileDirectory
}

func NewHandlerManager(
	matches *services.MatchService,
	rooms *services.RoomService,
	activity *services.ActivityService,
	stats *services.StatsService,
	recommender *recommend.Recommender,
	profiles ProfileDirectory,
) *HandlerManager {
	return &HandlerManager{
		Matches:     matches,
		Rooms:       rooms,
		Activity:    activity,
		Stats:       stats,
		Recommender: recommender,
		Profiles:    profiles,
	}
}

// Register mounts every route on r. submit guards the endpoints that create
// state and may be nil.
func (h *HandlerManager) Register(r gin.IRouter, submit gin.HandlerFunc) {
	if submit == nil {
		submit = func(c *gin.Context) { c.Next() }
	}

	r.GET("/health", h.Health)

	match := r.Group("/match")
	{
		match.POST("/join", submit, h.JoinMatch)
		match.GET("/status", h.MatchStatus)
		match.DELETE("/cancel", h.CancelMatch)
		match.GET("/active/:userId", h.ActiveStatus)
	}

	groups := r.Group("/groups")
	{
		groups.GET("", h.ListGroups)
		groups.GET("/:groupId", h.GetGroup)
	}

	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.GET("/my/:userId", h.MyRooms)
		rooms.GET("/:roomId", h.GetRoom)
		rooms.POST("", submit, h.CreateRoom)
		rooms.POST("/:roomId/join", submit, h.JoinRoom)
		rooms.POST("/:roomId/leave", h.LeaveRoom)
	}

	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", h.ListRestaurants)
		restaurants.GET("/random", h.RandomRestaurant)
	}

	users := r.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:userId", h.GetUser)
	}

	r.GET("/stats", h.GetStats)
	r.GET("/stats/export", h.ExportStats)
}

func (h *HandlerManager) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"waitingCount": len(h.Matches.Waiting()),
		"roomCount":    h.Rooms.Count(),
		"timestamp":    h.Matches.Now().UTC(),
	})
}
