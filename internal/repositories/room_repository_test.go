package repositories

import (
	"testing"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
)

func TestRoomRepository_OpenRoomsNewestFirst(t *testing.T) {
	base := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	r := NewRoomRepository()
	r.CreateRoom(&models.Room{ID: "old", MaxCount: 3, Status: models.RoomStatusOpen, Members: []models.Member{{ID: "a"}}, CreatedAt: base})
	r.CreateRoom(&models.Room{ID: "new", MaxCount: 3, Status: models.RoomStatusOpen, Members: []models.Member{{ID: "b"}}, CreatedAt: base.Add(time.Minute)})
	r.CreateRoom(&models.Room{ID: "full", MaxCount: 2, Status: models.RoomStatusFull, Members: []models.Member{{ID: "c"}, {ID: "a"}}, CreatedAt: base.Add(2 * time.Minute)})

	open := r.GetOpenRooms()
	if len(open) != 2 || open[0].ID != "new" || open[1].ID != "old" {
		t.Fatalf("GetOpenRooms() = %v", open)
	}

	if all := r.GetRooms(); len(all) != 3 || all[0].ID != "full" {
		t.Errorf("GetRooms() first = %s, want full", all[0].ID)
	}

	mine := r.GetUserRooms("a")
	if len(mine) != 2 {
		t.Errorf("GetUserRooms(a) len = %d, want 2", len(mine))
	}

	r.DeleteRoom("old")
	if _, ok := r.GetRoomByID("old"); ok {
		t.Error("GetRoomByID(old) found after delete")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestMemoryProfileRepository(t *testing.T) {
	r := NewMemoryProfileRepository(DemoProfiles()...)

	p, err := r.GetProfile("demo1")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	p.Name = "mutated"

	again, _ := r.GetProfile("demo1")
	if again.Name == "mutated" {
		t.Error("GetProfile() returned shared state")
	}

	if err := r.IncrementMatchCount("demo1"); err != nil {
		t.Fatalf("IncrementMatchCount() error = %v", err)
	}
	again, _ = r.GetProfile("demo1")
	if again.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", again.MatchCount)
	}

	if err := r.IncrementMatchCount("ghost"); err == nil {
		t.Error("IncrementMatchCount(ghost) expected error")
	}

	list, _ := r.ListProfiles()
	if len(list) != len(DemoProfiles()) {
		t.Errorf("ListProfiles() len = %d, want %d", len(list), len(DemoProfiles()))
	}
}
