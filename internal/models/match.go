package models

import (
	"time"

	"github.com/mroshb/lunchmate/pkg/errors"
)

// Demographics are used only for soft matching.
type Demographics struct {
	Age    int    `json:"age,omitempty"`
	Gender Gender `json:"gender,omitempty"`
	Level  Level  `json:"level,omitempty"`
}

func (d Demographics) Validate() error {
	if d.Age < 0 || d.Age > 120 {
		return errors.New(errors.ErrCodeValidation, "age out of range")
	}
	if d.Gender != "" && !d.Gender.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown gender: "+string(d.Gender))
	}
	if d.Level != "" && !d.Level.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown level: "+string(d.Level))
	}
	return nil
}

// Preferences are fixed at submission; only their enforcement relaxes over time.
type Preferences struct {
	SimilarAge bool `json:"similarAge"`
	SameGender bool `json:"sameGender"`
	SameLevel  bool `json:"sameLevel"`
}

type Preference string

// Relaxation order: gender is dropped first, then age, then level.
const (
	PreferenceGender Preference = "gender"
	PreferenceAge    Preference = "age"
	PreferenceLevel  Preference = "level"
)

var RelaxationOrder = []Preference{PreferenceGender, PreferenceAge, PreferenceLevel}

// Requested lists the chosen preferences in relaxation order.
func (p Preferences) Requested() []Preference {
	var out []Preference
	for _, pref := range RelaxationOrder {
		if p.Has(pref) {
			out = append(out, pref)
		}
	}
	return out
}

func (p Preferences) Has(pref Preference) bool {
	switch pref {
	case PreferenceGender:
		return p.SameGender
	case PreferenceAge:
		return p.SimilarAge
	case PreferenceLevel:
		return p.SameLevel
	}
	return false
}

// Only keeps the preferences that appear in prefs.
func PreferencesOf(prefs []Preference) Preferences {
	var out Preferences
	for _, pref := range prefs {
		switch pref {
		case PreferenceGender:
			out.SameGender = true
		case PreferenceAge:
			out.SimilarAge = true
		case PreferenceLevel:
			out.SameLevel = true
		}
	}
	return out
}

type MatchRequest struct {
	ID          string `json:"id"`
	RequesterID string `json:"requesterId"`
	DisplayName string `json:"displayName"`
	Department  string `json:"department"`
	Demographics
	HardConditions
	Preferences Preferences `json:"preferences"`
	EnqueuedAt  time.Time   `json:"enqueuedAt"`
}

// RequestState is the lifecycle position of a MatchRequest.
type RequestState string

const (
	RequestQueued    RequestState = "queued"
	RequestMatched   RequestState = "matched"
	RequestCancelled RequestState = "cancelled"
	RequestTimedOut  RequestState = "timed_out"
)

// MatchStatus values returned to pollers.
const (
	MatchStatusMatched  = "matched"
	MatchStatusWaiting  = "waiting"
	MatchStatusTimeout  = "timeout"
	MatchStatusNotFound = "not_found"
)

type Group struct {
	ID      string         `json:"id"`
	Members []MatchRequest `json:"members"`
	HardConditions
	Restaurant      Restaurant   `json:"restaurant"`
	Alternates      []Restaurant `json:"alternates"`
	RelaxationLevel int          `json:"relaxationLevel"`
	CreatedAt       time.Time    `json:"createdAt"`
}

func (g *Group) HasRequester(requesterID string) bool {
	for _, m := range g.Members {
		if m.RequesterID == requesterID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with g.
func (g *Group) Clone() *Group {
	c := *g
	c.Members = append([]MatchRequest(nil), g.Members...)
	c.Alternates = append([]Restaurant(nil), g.Alternates...)
	return &c
}
