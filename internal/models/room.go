package models

import (
	"time"
)

// Room capacity bounds
const (
	RoomMinCount = 2
	RoomMaxCount = 6
)

type RoomStatus string

// Room status constants
const (
	RoomStatusOpen RoomStatus = "open"
	RoomStatusFull RoomStatus = "full"
)

type Member struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	IsCreator  bool      `json:"isCreator"`
	JoinedAt   time.Time `json:"joinedAt"`
}

type Room struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	HardConditions
	MaxCount   int         `json:"maxCount"`
	Members    []Member    `json:"members"`
	Status     RoomStatus  `json:"status"`
	Restaurant *Restaurant `json:"restaurant,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ClampMaxCount bounds a requested capacity into [RoomMinCount, RoomMaxCount].
func ClampMaxCount(n int) int {
	if n < RoomMinCount {
		return RoomMinCount
	}
	if n > RoomMaxCount {
		return RoomMaxCount
	}
	return n
}

func (r *Room) IsFull() bool {
	return len(r.Members) >= r.MaxCount
}

func (r *Room) HasMember(id string) bool {
	return r.memberIndex(id) >= 0
}

func (r *Room) memberIndex(id string) int {
	for i, m := range r.Members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// RemoveMember drops id from the member list and reports whether it was present.
func (r *Room) RemoveMember(id string) bool {
	i := r.memberIndex(id)
	if i < 0 {
		return false
	}
	r.Members = append(r.Members[:i:i], r.Members[i+1:]...)
	return true
}

// SyncStatus derives Status from occupancy: full iff len(Members) == MaxCount.
func (r *Room) SyncStatus() {
	if r.IsFull() {
		r.Status = RoomStatusFull
	} else {
		r.Status = RoomStatusOpen
	}
}

func (r *Room) Clone() *Room {
	c := *r
	c.Members = append([]Member(nil), r.Members...)
	if r.Restaurant != nil {
		rest := *r.Restaurant
		c.Restaurant = &rest
	}
	return &c
}
