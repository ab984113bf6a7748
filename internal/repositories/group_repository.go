package repositories

import (
	"github.com/mroshb/lunchmate/internal/models"
)

// GroupRepository keeps formed groups for the process lifetime.
// Not safe for concurrent use; MatchService serializes access.
type GroupRepository struct {
	groups    []*models.Group
	byID      map[string]*models.Group
	byRequest map[string]*models.Group
}

func NewGroupRepository() *GroupRepository {
	return &GroupRepository{
		byID:      make(map[string]*models.Group),
		byRequest: make(map[string]*models.Group),
	}
}

// CreateGroup stores a group and indexes every member request
func (r *GroupRepository) CreateGroup(group *models.Group) {
	r.groups = append(r.groups, group)
	r.byID[group.ID] = group
	for _, m := range group.Members {
		r.byRequest[m.ID] = group
	}
}

// GetGroupByID retrieves a group by ID
func (r *GroupRepository) GetGroupByID(id string) (*models.Group, bool) {
	g, ok := r.byID[id]
	return g, ok
}

// GetGroupByRequestID retrieves the group a match request ended up in
func (r *GroupRepository) GetGroupByRequestID(requestID string) (*models.Group, bool) {
	g, ok := r.byRequest[requestID]
	return g, ok
}

// GetLatestGroupByRequester retrieves the most recent group containing requesterID
func (r *GroupRepository) GetLatestGroupByRequester(requesterID string) (*models.Group, bool) {
	for i := len(r.groups) - 1; i >= 0; i-- {
		if r.groups[i].HasRequester(requesterID) {
			return r.groups[i], true
		}
	}
	return nil, false
}

// All returns groups in creation order
func (r *GroupRepository) All() []*models.Group {
	return append([]*models.Group(nil), r.groups...)
}

func (r *GroupRepository) Len() int {
	return len(r.groups)
}
