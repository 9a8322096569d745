package reaper

import (
	"context"
	"time"

	"ripple/internal/channel"
	"ripple/internal/identity"
	"ripple/pkg/logger"
)

// Options carry the sweep cadence and cutoffs.
type Options struct {
	Interval         time.Duration
	ChannelIdleAfter time.Duration
	UserRetention    time.Duration
}

// Reaper periodically deletes channels that are both empty and idle past
// the threshold, and identities not seen within the retention window. It
// is a best-effort garbage collector: a channel that still has members is
// never touched, however stale.
type Reaper struct {
	channels channel.ChannelRepository
	users    identity.UserRepository
	logger   *logger.Logger
	opts     Options

	stop chan struct{}
	done chan struct{}
}

func New(channels channel.ChannelRepository, users identity.UserRepository, logger *logger.Logger, opts Options) *Reaper {
	return &Reaper{
		channels: channels,
		users:    users,
		logger:   logger,
		opts:     opts,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop on its own goroutine.
func (r *Reaper) Start() {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.Sweep(context.Background())
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

// Sweep runs one pass of both collectors. Exported so tests and operator
// tooling can trigger a pass without the ticker.
func (r *Reaper) Sweep(ctx context.Context) {
	r.sweepChannels(ctx)
	r.sweepUsers(ctx)
}

func (r *Reaper) sweepChannels(ctx context.Context) {
	cutoff := time.Now().Add(-r.opts.ChannelIdleAfter)

	ids, err := r.channels.ListReapable(ctx, cutoff)
	if err != nil {
		r.logger.Error("reaper: failed to list idle channels", "err", err)
		return
	}

	reaped := 0
	for _, id := range ids {
		// One bad record must not block the rest of the sweep.
		deleted, err := r.channels.DeleteIfReapable(ctx, id, cutoff)
		if err != nil {
			r.logger.Error("reaper: failed to delete channel", "channel_id", id, "err", err)
			continue
		}
		if deleted {
			reaped++
		}
	}
	if len(ids) > 0 {
		r.logger.Info("reaper: channel sweep done", "candidates", len(ids), "reaped", reaped)
	}
}

func (r *Reaper) sweepUsers(ctx context.Context) {
	cutoff := time.Now().Add(-r.opts.UserRetention)

	n, err := r.users.DeleteStale(ctx, cutoff)
	if err != nil {
		r.logger.Error("reaper: failed to delete stale users", "err", err)
		return
	}
	if n > 0 {
		r.logger.Info("reaper: identity sweep done", "deleted", n)
	}
}
