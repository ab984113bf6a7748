package repositories

import (
	"sort"

	"github.com/mroshb/lunchmate/internal/models"
)

// RoomRepository owns the live lunch rooms.
// Not safe for concurrent use; RoomService serializes access.
type RoomRepository struct {
	rooms map[string]*models.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[string]*models.Room)}
}

// CreateRoom stores a new room
func (r *RoomRepository) CreateRoom(room *models.Room) {
	r.rooms[room.ID] = room
}

// GetRoomByID retrieves a room by ID
func (r *RoomRepository) GetRoomByID(roomID string) (*models.Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// DeleteRoom removes a room
func (r *RoomRepository) DeleteRoom(roomID string) {
	delete(r.rooms, roomID)
}

// GetRooms returns every room, newest first
func (r *RoomRepository) GetRooms() []*models.Room {
	out := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// GetOpenRooms returns rooms with open status and free capacity, newest first
func (r *RoomRepository) GetOpenRooms() []*models.Room {
	var out []*models.Room
	for _, room := range r.GetRooms() {
		if room.Status == models.RoomStatusOpen && len(room.Members) < room.MaxCount {
			out = append(out, room)
		}
	}
	return out
}

// GetUserRooms retrieves all rooms a user is a member of
func (r *RoomRepository) GetUserRooms(userID string) []*models.Room {
	var out []*models.Room
	for _, room := range r.GetRooms() {
		if room.HasMember(userID) {
			out = append(out, room)
		}
	}
	return out
}

func (r *RoomRepository) Len() int {
	return len(r.rooms)
}
