// Package relax derives which soft preferences are still enforced for a
// waiting match request. Everything here is a pure function of elapsed wait
// time and the preferences chosen at submission.
package relax

import (
	"strings"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
)

// MaxLevel caps the relaxation stage.
const MaxLevel = 3

const (
	DefaultInterval = 60 * time.Second
	DefaultMaxWait  = 300 * time.Second
)

type Policy struct {
	// Interval between successive preference drops.
	Interval time.Duration
	// MaxWait is the queue residency ceiling.
	MaxWait time.Duration
}

func DefaultPolicy() Policy {
	return Policy{Interval: DefaultInterval, MaxWait: DefaultMaxWait}
}

// State is the relaxation outcome at one point in time.
type State struct {
	Level     int                 `json:"relaxationLevel"`
	Effective models.Preferences  `json:"effectivePreferences"`
	Dropped   []models.Preference `json:"droppedPreferences,omitempty"`
	Notice    string              `json:"notice,omitempty"`
	Expired   bool                `json:"expired"`
}

// Enforced reports whether any soft preference is still applied.
func (s State) Enforced() bool {
	return len(s.Effective.Requested()) > 0
}

// Level returns the relaxation stage for elapsed, in [0, MaxLevel].
func (p Policy) Level(elapsed time.Duration) int {
	if elapsed <= 0 || p.Interval <= 0 {
		return 0
	}
	level := int(elapsed / p.Interval)
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Expired reports whether elapsed has reached the wait ceiling.
func (p Policy) Expired(elapsed time.Duration) bool {
	return elapsed >= p.MaxWait
}

func (p Policy) Evaluate(elapsed time.Duration, prefs models.Preferences) State {
	level := p.Level(elapsed)
	requested := prefs.Requested()

	n := level
	if n > len(requested) {
		n = len(requested)
	}
	dropped := requested[:n]

	return State{
		Level:     level,
		Effective: models.PreferencesOf(requested[n:]),
		Dropped:   dropped,
		Notice:    notice(dropped),
		Expired:   p.Expired(elapsed),
	}
}

// Changed reports whether a preference was dropped between two observations.
func (p Policy) Changed(prev, cur time.Duration, prefs models.Preferences) bool {
	return len(p.Evaluate(cur, prefs).Dropped) > len(p.Evaluate(prev, prefs).Dropped)
}

var phrases = map[models.Preference]string{
	models.PreferenceGender: "different genders",
	models.PreferenceAge:    "different age groups",
	models.PreferenceLevel:  "different levels",
}

func notice(dropped []models.Preference) string {
	if len(dropped) == 0 {
		return ""
	}
	parts := make([]string, 0, len(dropped))
	for _, pref := range dropped {
		parts = append(parts, phrases[pref])
	}
	var joined string
	switch len(parts) {
	case 1:
		joined = parts[0]
	default:
		joined = strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
	return "No match found yet, now also matching " + joined + "."
}
