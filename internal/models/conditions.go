package models

import (
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/utils"
)

type TimeSlot string

// Time slot constants
const (
	TimeSlot1130 TimeSlot = "11:30"
	TimeSlot1200 TimeSlot = "12:00"
	TimeSlot1230 TimeSlot = "12:30"
	TimeSlot1300 TimeSlot = "13:00"
)

var TimeSlots = []TimeSlot{TimeSlot1130, TimeSlot1200, TimeSlot1230, TimeSlot1300}

type PriceRange string

// Price range constants
const (
	PriceLow  PriceRange = "low"
	PriceMid  PriceRange = "mid"
	PriceHigh PriceRange = "high"
)

var PriceRanges = []PriceRange{PriceLow, PriceMid, PriceHigh}

type Menu string

// Menu category constants
const (
	MenuKorean   Menu = "korean"
	MenuJapanese Menu = "japanese"
	MenuChinese  Menu = "chinese"
	MenuWestern  Menu = "western"
	MenuSalad    Menu = "salad"
	MenuSnack    Menu = "snack"
)

var Menus = []Menu{MenuKorean, MenuJapanese, MenuChinese, MenuWestern, MenuSalad, MenuSnack}

type Gender string

// Gender constants
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var Genders = []Gender{GenderMale, GenderFemale}

type Level string

// Seniority level constants, most junior first
const (
	LevelIntern    Level = "intern"
	LevelStaff     Level = "staff"
	LevelAssistant Level = "assistant"
	LevelManager   Level = "manager"
	LevelDeputy    Level = "deputy"
	LevelGeneral   Level = "general"
	LevelDirector  Level = "director"
)

var Levels = []Level{LevelIntern, LevelStaff, LevelAssistant, LevelManager, LevelDeputy, LevelGeneral, LevelDirector}

func contains[T ~string](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (t TimeSlot) Valid() bool   { return contains(TimeSlots, t) }
func (p PriceRange) Valid() bool { return contains(PriceRanges, p) }
func (m Menu) Valid() bool       { return contains(Menus, m) }
func (g Gender) Valid() bool     { return contains(Genders, g) }
func (l Level) Valid() bool      { return contains(Levels, l) }

// HardConditions must be equal between requests for them to ever share a group.
type HardConditions struct {
	TimeSlot   TimeSlot   `json:"timeSlot" yaml:"timeSlot"`
	PriceRange PriceRange `json:"priceRange" yaml:"priceRange"`
	Menu       Menu       `json:"menu" yaml:"menu"`
}

// Normalize trims and lowercases the enum inputs.
func (h HardConditions) Normalize() HardConditions {
	return HardConditions{
		TimeSlot:   TimeSlot(utils.NormalizeKey(string(h.TimeSlot))),
		PriceRange: PriceRange(utils.NormalizeKey(string(h.PriceRange))),
		Menu:       Menu(utils.NormalizeKey(string(h.Menu))),
	}
}

func (h HardConditions) Validate() error {
	if h.TimeSlot == "" {
		return errors.New(errors.ErrCodeValidation, "timeSlot is required")
	}
	if !h.TimeSlot.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown timeSlot: "+string(h.TimeSlot))
	}
	if h.PriceRange == "" {
		return errors.New(errors.ErrCodeValidation, "priceRange is required")
	}
	if !h.PriceRange.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown priceRange: "+string(h.PriceRange))
	}
	if h.Menu == "" {
		return errors.New(errors.ErrCodeValidation, "menu is required")
	}
	if !h.Menu.Valid() {
		return errors.New(errors.ErrCodeValidation, "unknown menu: "+string(h.Menu))
	}
	return nil
}
