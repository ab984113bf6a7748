package services

import (
	"time"
)

const DefaultGroupActivityWindow = 2 * time.Hour

// Activity kinds reported by ActiveStatus
const (
	ActivityWaiting = "waiting"
	ActivityRoom    = "room"
	ActivityGroup   = "group"
)

type ActiveStatus struct {
	Active bool   `json:"active"`
	Type   string `json:"type,omitempty"`
	ID     string `json:"id,omitempty"`
}

// ActivityService tells whether a user already has something unresolved, so
// the caller can redirect instead of accepting a new submission.
type ActivityService struct {
	matches *MatchService
	rooms   *RoomService
	window  time.Duration
}

func NewActivityService(matches *MatchService, rooms *RoomService, window time.Duration) *ActivityService {
	if window <= 0 {
		window = DefaultGroupActivityWindow
	}
	return &ActivityService{matches: matches, rooms: rooms, window: window}
}

// ActiveStatus checks the queue, then rooms, then recent groups.
func (s *ActivityService) ActiveStatus(userID string) ActiveStatus {
	if userID == "" {
		return ActiveStatus{}
	}
	if requestID, ok := s.matches.PendingRequestOf(userID); ok {
		return ActiveStatus{Active: true, Type: ActivityWaiting, ID: requestID}
	}
	if rooms := s.rooms.ListUserRooms(userID); len(rooms) > 0 {
		return ActiveStatus{Active: true, Type: ActivityRoom, ID: rooms[0].ID}
	}
	if group, ok := s.matches.LatestGroupOf(userID); ok {
		if s.matches.Now().Sub(group.CreatedAt) < s.window {
			return ActiveStatus{Active: true, Type: ActivityGroup, ID: group.ID}
		}
	}
	return ActiveStatus{}
}
