package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the persisted identity record behind a Profile.
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(64)"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Department string    `gorm:"type:varchar(255)"`
	Gender     string    `gorm:"type:varchar(10)"`
	Age        int       `gorm:"default:0"`
	Level      string    `gorm:"type:varchar(20);index"`
	MatchCount int       `gorm:"default:0;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Name == "" {
		return gorm.ErrInvalidData
	}
	if u.Gender != "" && !Gender(u.Gender).Valid() {
		return gorm.ErrInvalidData
	}
	if u.Age < 0 || u.Age > 120 {
		return gorm.ErrInvalidData
	}
	if u.Level != "" && !Level(u.Level).Valid() {
		return gorm.ErrInvalidData
	}
	if u.MatchCount < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:         u.ID,
		Name:       u.Name,
		Department: u.Department,
		Demographics: Demographics{
			Age:    u.Age,
			Gender: Gender(u.Gender),
			Level:  Level(u.Level),
		},
		MatchCount: u.MatchCount,
	}
}

func UserFromProfile(p *Profile) *User {
	return &User{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.Department,
		Gender:     string(p.Gender),
		Age:        p.Age,
		Level:      string(p.Level),
		MatchCount: p.MatchCount,
	}
}

// Profile is what the identity provider hands to the engine. Read-only to matching.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Demographics
	MatchCount int `json:"matchCount"`
}

type FoodLevel struct {
	Level    int    `json:"level"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	MinCount int    `json:"minCount"`
}

var foodLevels = []FoodLevel{
	{Level: 5, Name: "쩝쩝박사 마스터", Emoji: "👑", MinCount: 31},
	{Level: 4, Name: "먹고수", Emoji: "🏆", MinCount: 16},
	{Level: 3, Name: "미식가", Emoji: "🍽️", MinCount: 6},
	{Level: 2, Name: "먹린이", Emoji: "🍼", MinCount: 2},
	{Level: 1, Name: "새싹", Emoji: "🌱", MinCount: 0},
}

// FoodLevelFor maps a lifetime match count to its tier.
func FoodLevelFor(matchCount int) FoodLevel {
	for _, lvl := range foodLevels {
		if matchCount >= lvl.MinCount {
			return lvl
		}
	}
	return foodLevels[len(foodLevels)-1]
}
