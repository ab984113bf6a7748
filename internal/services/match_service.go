package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/relax"
	"github.com/mroshb/lunchmate/internal/repositories"
	"github.com/mroshb/lunchmate/internal/security"
	"github.com/mroshb/lunchmate/pkg/errors"
	"github.com/mroshb/lunchmate/pkg/logger"
	"github.com/mroshb/lunchmate/pkg/utils"
)

const (
	defaultDisplayName = "익명"
	defaultDepartment  = "미지정"
)

type MatchOptions struct {
	Policy       relax.Policy
	MaxGroupSize int
	// AgeTolerance is the widest age gap, in years, that still counts as similar.
	AgeTolerance int
	// StrictPreferences disables the fallback to the full same-condition pool
	// when no candidate passes the enforced soft preferences.
	StrictPreferences bool
	Alternates        int
	Now               func() time.Time
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Policy:       relax.DefaultPolicy(),
		MaxGroupSize: 4,
		AgeTolerance: 5,
		Alternates:   2,
	}
}

type SubmitInput struct {
	RequesterID string
	DisplayName string
	Department  string
	models.Demographics
	models.HardConditions
	Preferences models.Preferences
}

type SubmitResult struct {
	Status       string `json:"status"`
	GroupID      string `json:"groupId,omitempty"`
	RequestID    string `json:"matchRequestId"`
	RequesterID  string `json:"userId"`
	WaitingCount int    `json:"waitingCount,omitempty"`
}

type StatusResult struct {
	Status           string `json:"status"`
	GroupID          string `json:"groupId,omitempty"`
	WaitingCount     int    `json:"waitingCount,omitempty"`
	RelaxationLevel  int    `json:"relaxationLevel"`
	Notice           string `json:"notice,omitempty"`
	NewlyRelaxed     bool   `json:"newlyRelaxed,omitempty"`
	ElapsedSeconds   int    `json:"elapsedSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

type SweepResult struct {
	TimedOut int
	Formed   []*models.Group
}

// MatchService owns the match queue and the group registry behind one mutex.
// A request is never both queued and a group member outside the lock.
type MatchService struct {
	mu       sync.Mutex
	queue    *repositories.MatchQueue
	groups   *repositories.GroupRepository
	outcomes map[string]models.RequestState
	lastSeen map[string]time.Duration

	recommender Recommender
	profiles    ProfileStore
	notifier    Notifier
	opts        MatchOptions
	now         func() time.Time
}

func NewMatchService(recommender Recommender, profiles ProfileStore, notifier Notifier, opts MatchOptions) *MatchService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.MaxGroupSize < 2 {
		opts.MaxGroupSize = 2
	}
	return &MatchService{
		queue:       repositories.NewMatchQueue(),
		groups:      repositories.NewGroupRepository(),
		outcomes:    make(map[string]models.RequestState),
		lastSeen:    make(map[string]time.Duration),
		recommender: recommender,
		profiles:    profiles,
		notifier:    notifier,
		opts:        opts,
		now:         now,
	}
}

// Submit matches the request against the queue or enqueues it.
func (s *MatchService) Submit(in SubmitInput) (*SubmitResult, error) {
	cond := in.HardConditions.Normalize()
	if err := cond.Validate(); err != nil {
		return nil, err
	}
	in = s.enrich(in)
	if err := in.Demographics.Validate(); err != nil {
		return nil, err
	}

	req := &models.MatchRequest{
		ID:             uuid.NewString(),
		RequesterID:    in.RequesterID,
		DisplayName:    utils.FirstNonEmpty(security.SanitizeText(in.DisplayName, security.MaxNameLength), defaultDisplayName),
		Department:     utils.FirstNonEmpty(security.SanitizeText(in.Department, security.MaxNameLength), defaultDepartment),
		Demographics:   in.Demographics,
		HardConditions: cond,
		Preferences:    in.Preferences,
	}
	if req.RequesterID == "" {
		req.RequesterID = uuid.NewString()
	}

	s.mu.Lock()
	now := s.now()
	req.EnqueuedAt = now
	s.purgeExpiredLocked(now)

	// One pending request per requester: a resubmission replaces the old one.
	if prev, ok := s.queue.GetByRequester(req.RequesterID); ok {
		s.queue.Remove(prev.ID)
		s.outcomes[prev.ID] = models.RequestCancelled
		delete(s.lastSeen, prev.ID)
		logger.Info("Replaced pending match request", "requester", req.RequesterID, "previous", prev.ID)
	}

	state := s.opts.Policy.Evaluate(0, req.Preferences)
	group := s.tryMatchLocked(req, state, now)
	var result *SubmitResult
	if group != nil {
		result = &SubmitResult{
			Status:      models.MatchStatusMatched,
			GroupID:     group.ID,
			RequestID:   req.ID,
			RequesterID: req.RequesterID,
		}
	} else {
		s.queue.Add(req)
		result = &SubmitResult{
			Status:       models.MatchStatusWaiting,
			RequestID:    req.ID,
			RequesterID:  req.RequesterID,
			WaitingCount: s.queue.CountByConditions(cond),
		}
	}
	s.mu.Unlock()

	if group != nil {
		s.afterGroupFormed(group)
	} else {
		logger.Info("Match request queued", "request", req.ID, "menu", cond.Menu, "timeSlot", cond.TimeSlot, "waiting", result.WaitingCount)
	}
	return result, nil
}

// Status re-derives relaxation and re-attempts matching for a queued request.
// clientElapsed is what the poller reports; the server never trusts it to
// shorten the wait, so the larger of it and the server-side residency wins.
func (s *MatchService) Status(requestID string, clientElapsed time.Duration) *StatusResult {
	s.mu.Lock()
	now := s.now()
	s.purgeExpiredLocked(now)

	if group, ok := s.groups.GetGroupByRequestID(requestID); ok {
		s.mu.Unlock()
		return &StatusResult{Status: models.MatchStatusMatched, GroupID: group.ID, RelaxationLevel: group.RelaxationLevel}
	}

	req, ok := s.queue.Get(requestID)
	if !ok {
		outcome := s.outcomes[requestID]
		s.mu.Unlock()
		if outcome == models.RequestTimedOut {
			return &StatusResult{Status: models.MatchStatusTimeout, RelaxationLevel: relax.MaxLevel}
		}
		return &StatusResult{Status: models.MatchStatusNotFound}
	}

	elapsed := now.Sub(req.EnqueuedAt)
	if clientElapsed > elapsed {
		elapsed = clientElapsed
	}
	state := s.opts.Policy.Evaluate(elapsed, req.Preferences)

	if state.Expired {
		s.timeoutLocked(req)
		s.mu.Unlock()
		logger.Info("Match request timed out", "request", requestID, "elapsed", elapsed.String())
		return &StatusResult{
			Status:          models.MatchStatusTimeout,
			RelaxationLevel: state.Level,
			ElapsedSeconds:  int(elapsed / time.Second),
		}
	}

	if group := s.tryMatchLocked(req, state, now); group != nil {
		s.mu.Unlock()
		s.afterGroupFormed(group)
		return &StatusResult{Status: models.MatchStatusMatched, GroupID: group.ID, RelaxationLevel: state.Level}
	}

	newly := s.opts.Policy.Changed(s.lastSeen[requestID], elapsed, req.Preferences)
	s.lastSeen[requestID] = elapsed
	result := &StatusResult{
		Status:           models.MatchStatusWaiting,
		WaitingCount:     s.queue.CountByConditions(req.HardConditions),
		RelaxationLevel:  state.Level,
		Notice:           state.Notice,
		NewlyRelaxed:     newly,
		ElapsedSeconds:   int(elapsed / time.Second),
		RemainingSeconds: int((s.opts.Policy.MaxWait - elapsed + time.Second - 1) / time.Second),
	}
	s.mu.Unlock()
	return result
}

// Cancel removes a queued request. Unknown, matched and already cancelled
// requests are left alone; it never fails.
func (s *MatchService) Cancel(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Remove(requestID) > 0 {
		s.outcomes[requestID] = models.RequestCancelled
		delete(s.lastSeen, requestID)
		logger.Info("Match request cancelled", "request", requestID)
	}
}

// Sweep purges expired requests, then gives every waiting request, oldest
// first, a chance to match under its own current relaxation.
func (s *MatchService) Sweep() SweepResult {
	s.mu.Lock()
	now := s.now()
	result := SweepResult{TimedOut: s.purgeExpiredLocked(now)}

	for _, req := range s.queue.All() {
		if _, still := s.queue.Get(req.ID); !still {
			continue // taken by a group formed earlier in this sweep
		}
		state := s.opts.Policy.Evaluate(now.Sub(req.EnqueuedAt), req.Preferences)
		if group := s.tryMatchLocked(req, state, now); group != nil {
			result.Formed = append(result.Formed, group)
		}
	}
	s.mu.Unlock()

	for _, group := range result.Formed {
		s.afterGroupFormed(group)
	}
	return result
}

// GetGroup retrieves a group by ID
func (s *MatchService) GetGroup(groupID string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups.GetGroupByID(groupID)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "group not found")
	}
	return group.Clone(), nil
}

// ListGroups returns all groups in creation order
func (s *MatchService) ListGroups() []*models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := s.groups.All()
	out := make([]*models.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Clone())
	}
	return out
}

// Waiting returns copies of the queued requests, oldest first.
func (s *MatchService) Waiting() []models.MatchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.queue.All()
	out := make([]models.MatchRequest, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	return out
}

// PendingRequestOf returns the queued request ID of a requester.
func (s *MatchService) PendingRequestOf(requesterID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(s.now())
	req, ok := s.queue.GetByRequester(requesterID)
	if !ok {
		return "", false
	}
	return req.ID, true
}

// LatestGroupOf returns the newest group a requester belongs to.
func (s *MatchService) LatestGroupOf(requesterID string) (*models.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups.GetLatestGroupByRequester(requesterID)
	if !ok {
		return nil, false
	}
	return group.Clone(), true
}

func (s *MatchService) Now() time.Time {
	return s.now()
}

func (s *MatchService) enrich(in SubmitInput) SubmitInput {
	if in.RequesterID == "" || s.profiles == nil {
		return in
	}
	profile, err := s.profiles.GetProfile(in.RequesterID)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeNotFound) {
			logger.Warn("Profile lookup failed", "requester", in.RequesterID, "error", err)
		}
		return in
	}
	in.DisplayName = utils.FirstNonEmpty(in.DisplayName, profile.Name)
	in.Department = utils.FirstNonEmpty(in.Department, profile.Department)
	if in.Age == 0 {
		in.Age = profile.Age
	}
	if in.Gender == "" {
		in.Gender = profile.Gender
	}
	if in.Level == "" {
		in.Level = profile.Level
	}
	return in
}

// tryMatchLocked forms a group for req from same-condition candidates. req
// may or may not be queued itself. Callers hold s.mu.
func (s *MatchService) tryMatchLocked(req *models.MatchRequest, state relax.State, now time.Time) *models.Group {
	candidates := s.queue.Candidates(req.HardConditions, req.ID)
	if len(candidates) == 0 {
		return nil
	}

	var compatible []*models.MatchRequest
	for _, c := range candidates {
		if s.compatible(req, c, state.Effective) {
			compatible = append(compatible, c)
		}
	}
	if len(compatible) == 0 {
		// Soft preferences only bias selection unless strict mode is on.
		if s.opts.StrictPreferences {
			return nil
		}
		compatible = candidates
	}

	take := s.opts.MaxGroupSize - 1
	if take > len(compatible) {
		take = len(compatible)
	}

	members := make([]models.MatchRequest, 0, take+1)
	members = append(members, *req)
	ids := []string{req.ID}
	for _, c := range compatible[:take] {
		members = append(members, *c)
		ids = append(ids, c.ID)
	}
	s.queue.Remove(ids...)
	for _, id := range ids {
		delete(s.lastSeen, id)
	}

	group := &models.Group{
		ID:              uuid.NewString(),
		Members:         members,
		HardConditions:  req.HardConditions,
		RelaxationLevel: state.Level,
		CreatedAt:       now,
	}
	group.Restaurant = s.recommender.RecommendOne(group.Menu, group.PriceRange)
	group.Alternates = s.alternates(group)
	s.groups.CreateGroup(group)
	return group
}

func (s *MatchService) alternates(group *models.Group) []models.Restaurant {
	if s.opts.Alternates <= 0 {
		return nil
	}
	var out []models.Restaurant
	for _, r := range s.recommender.RecommendMany(group.Menu, group.PriceRange, s.opts.Alternates+1) {
		if r.ID == group.Restaurant.ID {
			continue
		}
		if len(out) == s.opts.Alternates {
			break
		}
		out = append(out, r)
	}
	return out
}

// compatible applies the requester's enforced preferences to a candidate.
// An attribute missing on either side never blocks a match.
func (s *MatchService) compatible(req, cand *models.MatchRequest, prefs models.Preferences) bool {
	if prefs.SameGender && req.Gender != "" && cand.Gender != "" && req.Gender != cand.Gender {
		return false
	}
	if prefs.SimilarAge && req.Age > 0 && cand.Age > 0 {
		gap := req.Age - cand.Age
		if gap < 0 {
			gap = -gap
		}
		if gap > s.opts.AgeTolerance {
			return false
		}
	}
	if prefs.SameLevel && req.Level != "" && cand.Level != "" && req.Level != cand.Level {
		return false
	}
	return true
}

func (s *MatchService) timeoutLocked(req *models.MatchRequest) {
	s.queue.Remove(req.ID)
	s.outcomes[req.ID] = models.RequestTimedOut
	delete(s.lastSeen, req.ID)
}

// purgeExpiredLocked bounds queue residency by server time. Callers hold s.mu.
func (s *MatchService) purgeExpiredLocked(now time.Time) int {
	var expired []*models.MatchRequest
	for _, req := range s.queue.All() {
		if s.opts.Policy.Expired(now.Sub(req.EnqueuedAt)) {
			expired = append(expired, req)
		}
	}
	for _, req := range expired {
		s.timeoutLocked(req)
	}
	if len(expired) > 0 {
		logger.Info("Purged expired match requests", "count", len(expired))
	}
	return len(expired)
}

func (s *MatchService) afterGroupFormed(group *models.Group) {
	logger.Info("Lunch group formed",
		"group", group.ID,
		"members", len(group.Members),
		"menu", group.Menu,
		"timeSlot", group.TimeSlot,
		"restaurant", group.Restaurant.Name,
		"relaxationLevel", group.RelaxationLevel,
	)
	if s.profiles != nil {
		for _, m := range group.Members {
			if err := s.profiles.IncrementMatchCount(m.RequesterID); err != nil && !errors.HasCode(err, errors.ErrCodeNotFound) {
				logger.Warn("Failed to increment match count", "user", m.RequesterID, "error", err)
			}
		}
	}
	s.notifier.GroupFormed(group.Clone())
}
