package repositories

import (
	"sort"

	"github.com/mroshb/lunchmate/internal/models"
)

// MatchQueue holds pending match requests in enqueue order.
// It is not safe for concurrent use; MatchService serializes access.
type MatchQueue struct {
	entries []*models.MatchRequest
}

func NewMatchQueue() *MatchQueue {
	return &MatchQueue{}
}

// Add appends a request to the tail of the queue
func (q *MatchQueue) Add(req *models.MatchRequest) {
	q.entries = append(q.entries, req)
}

// Get retrieves a queued request by ID
func (q *MatchQueue) Get(id string) (*models.MatchRequest, bool) {
	for _, e := range q.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// GetByRequester retrieves the queued request of a requester, if any
func (q *MatchQueue) GetByRequester(requesterID string) (*models.MatchRequest, bool) {
	for _, e := range q.entries {
		if e.RequesterID == requesterID {
			return e, true
		}
	}
	return nil, false
}

// Remove deletes the given request IDs and returns how many were present
func (q *MatchQueue) Remove(ids ...string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if drop[e.ID] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = nil
	}
	q.entries = kept
	return removed
}

// Candidates returns requests with exactly cond, oldest first, skipping excludeID
func (q *MatchQueue) Candidates(cond models.HardConditions, excludeID string) []*models.MatchRequest {
	var out []*models.MatchRequest
	for _, e := range q.entries {
		if e.ID == excludeID || e.HardConditions != cond {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnqueuedAt.Before(out[j].EnqueuedAt)
	})
	return out
}

// CountByConditions counts waiting requests with exactly cond
func (q *MatchQueue) CountByConditions(cond models.HardConditions) int {
	n := 0
	for _, e := range q.entries {
		if e.HardConditions == cond {
			n++
		}
	}
	return n
}

// All returns the queued requests, oldest first
func (q *MatchQueue) All() []*models.MatchRequest {
	return append([]*models.MatchRequest(nil), q.entries...)
}

func (q *MatchQueue) Len() int {
	return len(q.entries)
}
