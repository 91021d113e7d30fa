package transform

import (
	"context"
	"errors"
	"time"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/logging"
)

// maxArmFailures bounds the retry chain for errors other than a missing
// observe target. Later arm calls still get a single attempt each.
const maxArmFailures = 10

// mutationWatcher arms a single subtree observer per page context. Until the
// document has a body or documentElement, arming is retried on a fixed delay
// for as long as the engine is enabled.
type mutationWatcher struct {
	page     port.Page
	sched    Scheduler
	retry    time.Duration
	wanted   func() bool
	armed    bool
	pending  bool
	failures int
}

func newMutationWatcher(page port.Page, sched Scheduler, retry time.Duration, wanted func() bool) *mutationWatcher {
	return &mutationWatcher{page: page, sched: sched, retry: retry, wanted: wanted}
}

func (w *mutationWatcher) arm(ctx context.Context) {
	if w.armed || w.pending {
		return
	}
	log := logging.FromContext(ctx)

	err := w.page.ObserveMutations(ctx)
	if err == nil {
		w.armed = true
		w.failures = 0
		log.Debug().Msg("mutation watcher armed")
		return
	}
	if !errors.Is(err, port.ErrNoObserveTarget) {
		w.failures++
		if w.failures >= maxArmFailures {
			if w.failures == maxArmFailures {
				log.Debug().Err(err).Int("attempts", w.failures).Msg("mutation watcher unavailable, retries stopped")
			}
			return
		}
		log.Debug().Err(err).Msg("mutation watcher arm failed")
	}

	w.pending = true
	w.sched.AfterFunc(w.retry, func() {
		w.pending = false
		if !w.wanted() {
			return
		}
		w.arm(ctx)
	})
}
