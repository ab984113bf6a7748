package services

import (
	"github.com/mroshb/lunchmate/internal/models"
)

// ProfileStore is the identity provider. Matching only reads profiles;
// match counts are bumped after a group forms or a room fills.
type ProfileStore interface {
	GetProfile(id string) (*models.Profile, error)
	IncrementMatchCount(id string) error
}

// Recommender supplies restaurants for groups and rooms.
type Recommender interface {
	RecommendOne(menu models.Menu, price models.PriceRange) models.Restaurant
	RecommendMany(menu models.Menu, price models.PriceRange, count int) []models.Restaurant
}

// Notifier receives lifecycle events after the state change is committed.
type Notifier interface {
	GroupFormed(group *models.Group)
	RoomFull(room *models.Room)
}

type nopNotifier struct{}

func (nopNotifier) GroupFormed(*models.Group) {}
func (nopNotifier) RoomFull(*models.Room)     {}
