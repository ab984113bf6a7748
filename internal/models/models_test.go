package models

import (
	"reflect"
	"testing"

	"github.com/mroshb/lunchmate/pkg/errors"
)

func TestHardConditions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cond    HardConditions
		wantErr bool
	}{
		{
			name:    "Valid",
			cond:    HardConditions{TimeSlot: TimeSlot1200, PriceRange: PriceMid, Menu: MenuKorean},
			wantErr: false,
		},
		{
			name:    "Missing time slot",
			cond:    HardConditions{PriceRange: PriceMid, Menu: MenuKorean},
			wantErr: true,
		},
		{
			name:    "Missing price range",
			cond:    HardConditions{TimeSlot: TimeSlot1200, Menu: MenuKorean},
			wantErr: true,
		},
		{
			name:    "Missing menu",
			cond:    HardConditions{TimeSlot: TimeSlot1200, PriceRange: PriceMid},
			wantErr: true,
		},
		{
			name:    "Unknown menu",
			cond:    HardConditions{TimeSlot: TimeSlot1200, PriceRange: PriceMid, Menu: "pizza"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cond.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.HasCode(err, errors.ErrCodeValidation) {
				t.Errorf("Validate() code = %s, want %s", errors.CodeOf(err), errors.ErrCodeValidation)
			}
		})
	}
}

func TestHardConditions_Normalize(t *testing.T) {
	got := HardConditions{TimeSlot: " 12:00 ", PriceRange: "MID", Menu: "Korean"}.Normalize()
	want := HardConditions{TimeSlot: TimeSlot1200, PriceRange: PriceMid, Menu: MenuKorean}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestPreferences_RequestedOrder(t *testing.T) {
	prefs := Preferences{SimilarAge: true, SameGender: true, SameLevel: true}
	want := []Preference{PreferenceGender, PreferenceAge, PreferenceLevel}
	if got := prefs.Requested(); !reflect.DeepEqual(got, want) {
		t.Errorf("Requested() = %v, want %v", got, want)
	}

	levelOnly := Preferences{SameLevel: true}
	if got := levelOnly.Requested(); !reflect.DeepEqual(got, []Preference{PreferenceLevel}) {
		t.Errorf("Requested() = %v, want [level]", got)
	}

	if got := PreferencesOf(prefs.Requested()); got != prefs {
		t.Errorf("PreferencesOf(Requested()) = %+v, want %+v", got, prefs)
	}
}

func TestRoom_StatusFollowsOccupancy(t *testing.T) {
	room := &Room{MaxCount: 2, Members: []Member{{ID: "a", IsCreator: true}}}
	room.SyncStatus()
	if room.Status != RoomStatusOpen {
		t.Fatalf("Status = %s, want open", room.Status)
	}

	room.Members = append(room.Members, Member{ID: "b"})
	room.SyncStatus()
	if room.Status != RoomStatusFull {
		t.Fatalf("Status = %s, want full", room.Status)
	}

	if !room.RemoveMember("b") {
		t.Fatal("RemoveMember(b) = false, want true")
	}
	if room.RemoveMember("b") {
		t.Error("RemoveMember(b) twice = true, want false")
	}
	room.SyncStatus()
	if room.Status != RoomStatusOpen || len(room.Members) != 1 {
		t.Errorf("after leave: status=%s members=%d", room.Status, len(room.Members))
	}
}

func TestRoom_CloneIsIndependent(t *testing.T) {
	room := &Room{ID: "r", MaxCount: 3, Members: []Member{{ID: "a"}}, Restaurant: &Restaurant{ID: "r1"}}
	c := room.Clone()
	c.Members[0].Name = "changed"
	c.Restaurant.Name = "changed"
	if room.Members[0].Name != "" || room.Restaurant.Name != "" {
		t.Error("Clone() shares state with the original")
	}
}

func TestClampMaxCount(t *testing.T) {
	tests := []struct{ in, want int }{{0, 2}, {1, 2}, {2, 2}, {4, 4}, {6, 6}, {10, 6}}
	for _, tt := range tests {
		if got := ClampMaxCount(tt.in); got != tt.want {
			t.Errorf("ClampMaxCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDemographics_Validate(t *testing.T) {
	if err := (Demographics{Age: 30, Gender: GenderFemale, Level: LevelDeputy}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error = %v", err)
	}
	if err := (Demographics{}).Validate(); err != nil {
		t.Errorf("Validate() on empty demographics error = %v", err)
	}
	if err := (Demographics{Level: "ceo"}).Validate(); err == nil {
		t.Error("Validate() expected error for unknown level")
	}
}
