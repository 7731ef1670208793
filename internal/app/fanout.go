package app

import (
	"context"
	crand "crypto/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/JooruBackend/jooru-backend-sub001/internal/domain"
)

// Deliverer pushes one notification to its delivery channel. Concrete
// channels (email, push) plug in here; LogDeliverer is the default.
type Deliverer interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// LogDeliverer writes the delivery as a structured log line.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(_ context.Context, n domain.Notification) error {
	log.Info().
		Int64("id", n.ID).
		Int64("user_id", n.UserID).
		Str("kind", string(n.Kind)).
		Msg("notification delivered")
	return nil
}

// FanoutService drains queued notifications in batches and hands each one to
// a bounded pool of delivery workers.
type FanoutService struct {
	repo      domain.NotificationRepository
	deliverer Deliverer
	workers   int
	batch     int
	pollEvery time.Duration
}

func NewFanoutService(repo domain.NotificationRepository, d Deliverer, workers, batch int, pollEvery time.Duration) *FanoutService {
	if workers < 1 {
		workers = 1
	}
	if batch < 1 {
		batch = 1
	}
	return &FanoutService{repo: repo, deliverer: d, workers: workers, batch: batch, pollEvery: pollEvery}
}

// Run polls until ctx is cancelled. Dequeue errors back off exponentially so
// a struggling database is not hammered.
func (s *FanoutService) Run(ctx context.Context) error {
	errs := 0
	for {
		n, err := s.DrainOnce(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("dequeue failed")
			errs++
			if !sleepCtx(ctx, backoff(min(errs, 5))) {
				return ctx.Err()
			}
		case n == s.batch:
			// full batch, more is probably waiting
			errs = 0
		default:
			errs = 0
			if !sleepCtx(ctx, s.pollEvery) {
				return ctx.Err()
			}
		}
	}
}

// DrainOnce claims one batch and delivers it, returning how many
// notifications were claimed.
func (s *FanoutService) DrainOnce(ctx context.Context) (int, error) {
	batch, err := s.repo.DequeueBatch(ctx, s.batch)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	for _, n := range batch {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(n domain.Notification) {
			defer wg.Done()
			defer sem.Release(1)
			if err := s.deliverer.Deliver(ctx, n); err != nil {
				log.Warn().Err(err).Int64("id", n.ID).Msg("delivery failed")
			}
		}(n)
	}
	wg.Wait()
	return len(batch), nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to
// +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
