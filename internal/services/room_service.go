package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/repositories"
	"github.com/mroshb/lunchmate/internal/security"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/logger"
	"github.com/mroshb/lunchmate/pkg/utils"
)

const (
	defaultCreatorName     = "방장"
	defaultParticipantName = "참여자"
)

type Participant struct {
	ID         string `json:"userId"`
	Name       string `json:"userName"`
	Department string `json:"department"`
}

type CreateRoomInput struct {
	Title      string
	TimeSlot   models.TimeSlot
	Menu       models.Menu
	PriceRange models.PriceRange
	MaxCount   int
	Restaurant *models.Restaurant
	Creator    Participant
}

// LeaveResult reports the room after a departure, or that it was deleted.
type LeaveResult struct {
	Room    *models.Room `json:"room,omitempty"`
	Deleted bool         `json:"deleted"`
}

// RoomService is the registry of user-created rooms. One mutex guards it.
type RoomService struct {
	mu    sync.Mutex
	rooms *repositories.RoomRepository

	recommender Recommender
	profiles    ProfileStore
	notifier    Notifier
	now         func() time.Time
}

func NewRoomService(recommender Recommender, profiles ProfileStore, notifier Notifier, now func() time.Time) *RoomService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       repositories.NewRoomRepository(),
		recommender: recommender,
		profiles:    profiles,
		notifier:    notifier,
		now:         now,
	}
}

// CreateRoom validates input, clamps capacity and enrolls the creator.
func (s *RoomService) CreateRoom(in CreateRoomInput) (*models.Room, error) {
	title := security.SanitizeText(in.Title, security.MaxTitleLength)
	if strings.TrimSpace(title) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "title is required")
	}
	if in.MaxCount <= 0 {
		return nil, errors.New(errors.ErrCodeValidation, "maxCount is required")
	}

	cond := models.HardConditions{
		TimeSlot:   in.TimeSlot,
		PriceRange: models.PriceRange(utils.FirstNonEmpty(string(in.PriceRange), string(models.PriceMid))),
		Menu:       in.Menu,
	}.Normalize()
	if err := cond.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	creator := s.member(in.Creator, now)
	creator.Name = utils.FirstNonEmpty(creator.Name, defaultCreatorName)
	creator.IsCreator = true

	room := &models.Room{
		ID:             uuid.NewString(),
		Title:          title,
		HardConditions: cond,
		MaxCount:       models.ClampMaxCount(in.MaxCount),
		Members:        []models.Member{creator},
		CreatedAt:      now,
	}
	if in.Restaurant != nil {
		rest := *in.Restaurant
		room.Restaurant = &rest
	} else if s.recommender != nil {
		rest := s.recommender.RecommendOne(cond.Menu, cond.PriceRange)
		room.Restaurant = &rest
	}
	room.SyncStatus()

	s.mu.Lock()
	s.rooms.CreateRoom(room)
	out := room.Clone()
	s.mu.Unlock()

	logger.Info("Room created", "room", room.ID, "title", room.Title, "maxCount", room.MaxCount, "creator", creator.ID)
	return out, nil
}

// JoinRoom appends a participant. Fails with ROOM_FULL or ALREADY_JOINED.
func (s *RoomService) JoinRoom(roomID string, p Participant) (*models.Room, error) {
	now := s.now()
	member := s.member(p, now)
	member.Name = utils.FirstNonEmpty(member.Name, defaultParticipantName)

	s.mu.Lock()
	room, ok := s.rooms.GetRoomByID(roomID)
	if !ok {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	if room.IsFull() {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeRoomFull, "room is full")
	}
	if room.HasMember(member.ID) {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeAlreadyJoined, "already joined this room")
	}

	room.Members = append(room.Members, member)
	room.SyncStatus()
	filled := room.Status == models.RoomStatusFull
	out := room.Clone()
	s.mu.Unlock()

	logger.Info("Joined room", "room", roomID, "member", member.ID, "count", len(out.Members), "maxCount", out.MaxCount)
	if filled {
		s.afterRoomFilled(out)
	}
	return out, nil
}

// LeaveRoom removes a participant. The last one out deletes the room.
func (s *RoomService) LeaveRoom(roomID, participantID string) (*LeaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.GetRoomByID(roomID)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	if !room.RemoveMember(participantID) {
		return nil, errors.New(errors.ErrCodeNotFound, "member not found")
	}

	if len(room.Members) == 0 {
		s.rooms.DeleteRoom(roomID)
		logger.Info("Room deleted", "room", roomID)
		return &LeaveResult{Deleted: true}, nil
	}

	room.SyncStatus()
	logger.Info("Left room", "room", roomID, "member", participantID, "count", len(room.Members))
	return &LeaveResult{Room: room.Clone()}, nil
}

// GetRoom retrieves a room by ID
func (s *RoomService) GetRoom(roomID string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.GetRoomByID(roomID)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	return room.Clone(), nil
}

// ListOpenRooms returns joinable rooms, newest first.
func (s *RoomService) ListOpenRooms() []*models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRooms(s.rooms.GetOpenRooms())
}

// ListActive returns every room regardless of status, newest first.
func (s *RoomService) ListActive() []*models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRooms(s.rooms.GetRooms())
}

// ListUserRooms returns the rooms a participant belongs to.
func (s *RoomService) ListUserRooms(userID string) []*models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRooms(s.rooms.GetUserRooms(userID))
}

func (s *RoomService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms.Len()
}

func (s *RoomService) member(p Participant, now time.Time) models.Member {
	m := models.Member{
		ID:         p.ID,
		Name:       security.SanitizeText(p.Name, security.MaxNameLength),
		Department: security.SanitizeText(p.Department, security.MaxNameLength),
		JoinedAt:   now,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
		return m
	}
	if s.profiles != nil && (m.Name == "" || m.Department == "") {
		if profile, err := s.profiles.GetProfile(m.ID); err == nil {
			m.Name = utils.FirstNonEmpty(m.Name, profile.Name)
			m.Department = utils.FirstNonEmpty(m.Department, profile.Department)
		}
	}
	return m
}

func (s *RoomService) afterRoomFilled(room *models.Room) {
	logger.Info("Room is full", "room", room.ID, "members", len(room.Members))
	if s.profiles != nil {
		for _, m := range room.Members {
			if err := s.profiles.IncrementMatchCount(m.ID); err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
				logger.Warn("Failed to increment match count", "user", m.ID, "error", err)
			}
		}
	}
	s.notifier.RoomFull(room)
}

func cloneRooms(rooms []*models.Room) []*models.Room {
	out := make([]*models.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Clone())
	}
	return out
}
