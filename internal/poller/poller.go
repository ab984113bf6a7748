// Package poller drives a waiting match request from the client side: it
// polls status on one interval, advances a local elapsed counter on another,
// and cancels the request when its context ends.
package poller

import (
	"context"
	"time"

	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/internal/services"
	"github.com/mroshb/lunchmate/pkg/logger"
)

const (
	DefaultStatusInterval = 2 * time.Second
	DefaultTickInterval   = time.Second
	DefaultRoomInterval   = 3 * time.Second
	cancelTimeout         = 5 * time.Second
)

type Source interface {
	Status(ctx context.Context, requestID string, elapsed time.Duration) (*services.StatusResult, error)
	Cancel(ctx context.Context, requestID string) error
}

type RoomSource interface {
	Room(ctx context.Context, roomID string) (*models.Room, error)
}

type Options struct {
	StatusInterval time.Duration
	TickInterval   time.Duration
	// MaxWait is only used to render the remaining time between polls.
	MaxWait time.Duration
}

func DefaultOptions() Options {
	return Options{
		StatusInterval: DefaultStatusInterval,
		TickInterval:   DefaultTickInterval,
		MaxWait:        5 * time.Minute,
	}
}

// Update is what a UI renders: the local clock plus the last known status.
type Update struct {
	Elapsed   time.Duration
	Remaining time.Duration
	Status    *services.StatusResult
	// Polled is set when Status was refreshed by this update.
	Polled bool
}

type Poller struct {
	source   Source
	opts     Options
	onUpdate func(Update)
}

func New(source Source, opts Options, onUpdate func(Update)) *Poller {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if onUpdate == nil {
		onUpdate = func(Update) {}
	}
	return &Poller{source: source, opts: opts, onUpdate: onUpdate}
}

func terminal(status string) bool {
	switch status {
	case models.MatchStatusMatched, models.MatchStatusTimeout, models.MatchStatusNotFound:
		return true
	}
	return false
}

// Run polls until the request resolves. When ctx ends first the request is
// cancelled on the server and ctx.Err() is returned with the last status.
func (p *Poller) Run(ctx context.Context, requestID string) (*services.StatusResult, error) {
	statusTicker := time.NewTicker(p.opts.StatusInterval)
	defer statusTicker.Stop()
	clock := time.NewTicker(p.opts.TickInterval)
	defer clock.Stop()

	var (
		elapsed time.Duration
		last    = &services.StatusResult{Status: models.MatchStatusWaiting}
	)

	poll := func() bool {
		st, err := p.source.Status(ctx, requestID, elapsed)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("Status poll failed", "request", requestID, "error", err)
			}
			return false
		}
		last = st
		p.onUpdate(Update{Elapsed: elapsed, Remaining: p.remaining(elapsed), Status: st, Polled: true})
		return terminal(st.Status)
	}

	if poll() {
		return last, nil
	}

	for {
		select {
		case <-ctx.Done():
			cctx, cancel := context.WithTimeout(context.Background(), cancelTimeout)
			if err := p.source.Cancel(cctx, requestID); err != nil {
				logger.Warn("Cancel failed", "request", requestID, "error", err)
			}
			cancel()
			return last, ctx.Err()
		case <-clock.C:
			elapsed += p.opts.TickInterval
			p.onUpdate(Update{Elapsed: elapsed, Remaining: p.remaining(elapsed), Status: last})
		case <-statusTicker.C:
			if poll() {
				return last, nil
			}
		}
	}
}

func (p *Poller) remaining(elapsed time.Duration) time.Duration {
	if p.opts.MaxWait <= elapsed {
		return 0
	}
	return p.opts.MaxWait - elapsed
}

// WatchRoom reports the room on every interval until it is deleted or ctx ends.
// It never changes the room itself.
func WatchRoom(ctx context.Context, source RoomSource, roomID string, every time.Duration, fn func(*models.Room)) error {
	if every <= 0 {
		every = DefaultRoomInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		room, err := source.Room(ctx, roomID)
		switch {
		case err == nil:
			fn(room)
		case isNotFound(err):
			fn(nil)
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			logger.Warn("Room poll failed", "room", roomID, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
