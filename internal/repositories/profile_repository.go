package repositories

import (
	"sort"
	"sync"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/errors"
)

// MemoryProfileRepository is the in-process profile store used when no database is configured.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
}

func NewMemoryProfileRepository(seed ...*models.Profile) *MemoryProfileRepository {
	r := &MemoryProfileRepository{profiles: make(map[string]*models.Profile)}
	for _, p := range seed {
		cp := *p
		r.profiles[p.ID] = &cp
	}
	return r
}

// DemoProfiles are the sample colleagues available out of the box.
func DemoProfiles() []*models.Profile {
	return []*models.Profile{
		{ID: "demo1", Name: "김철수", Department: "AI팀", Demographics: models.Demographics{Gender: models.GenderMale, Age: 28, Level: models.LevelStaff}},
		{ID: "demo2", Name: "이영희", Department: "개발팀", Demographics: models.Demographics{Gender: models.GenderFemale, Age: 32, Level: models.LevelAssistant}},
		{ID: "demo3", Name: "박지민", Department: "디자인팀", Demographics: models.Demographics{Gender: models.GenderFemale, Age: 26, Level: models.LevelStaff}},
		{ID: "demo4", Name: "최동욱", Department: "마케팅팀", Demographics: models.Demographics{Gender: models.GenderMale, Age: 35, Level: models.LevelManager}},
		{ID: "demo5", Name: "정수현", Department: "컨설팅팀", Demographics: models.Demographics{Gender: models.GenderFemale, Age: 29, Level: models.LevelAssistant}},
	}
}

func (r *MemoryProfileRepository) GetProfile(id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProfileRepository) SaveProfile(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *profile
	r.profiles[profile.ID] = &cp
	return nil
}

func (r *MemoryProfileRepository) ListProfiles() ([]*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryProfileRepository) IncrementMatchCount(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	p.MatchCount++
	return nil
}
