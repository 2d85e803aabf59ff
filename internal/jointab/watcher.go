package jointab

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/bashbay-events/internal/models"
	"github.com/robfig/cron/v3"
)

const DefaultRecheck = "@every 1s"

// Source supplies the published events the watcher filters.
type Source interface {
	GetPublishedEvents(ctx context.Context) ([]models.Event, error)
}

// Watcher re-evaluates the join tab on a schedule so events drop out once
// their grace period ends, without refetching from the store.
type Watcher struct {
	source   Source
	filter   Filter
	schedule string
	logger   *slog.Logger
	now      func() time.Time
}

type WatcherOption func(*Watcher)

func WithClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) { w.now = now }
}

func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

func NewWatcher(source Source, filter Filter, schedule string, opts ...WatcherOption) *Watcher {
	if schedule == "" {
		schedule = DefaultRecheck
	}
	w := &Watcher{
		source:   source,
		filter:   filter,
		schedule: schedule,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch fetches the published events once and sends the filtered set, then
// sends again on each scheduled recheck whose visible ids differ from the last
// set sent. The channel is closed after ctx is cancelled and the schedule has
// stopped.
func (w *Watcher) Watch(ctx context.Context, c Criteria) (<-chan []models.Event, error) {
	events, err := w.source.GetPublishedEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load join tab events: %w", err)
	}

	sched := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	out := make(chan []models.Event, 1)
	var (
		mu   sync.Mutex
		last string
		sent bool
	)
	recheck := func() {
		visible := w.filter.Apply(events, c, w.now())
		key := idSet(visible)

		mu.Lock()
		changed := !sent || key != last
		if changed {
			last, sent = key, true
		}
		mu.Unlock()
		if !changed {
			return
		}

		select {
		case out <- visible:
		case <-ctx.Done():
		}
	}

	if _, err := sched.AddFunc(w.schedule, recheck); err != nil {
		return nil, fmt.Errorf("invalid join tab recheck schedule %q: %w", w.schedule, err)
	}

	recheck()
	sched.Start()
	w.logger.DebugContext(ctx, "join tab watcher started", "schedule", w.schedule, "events", len(events))

	go func() {
		<-ctx.Done()
		<-sched.Stop().Done()
		close(out)
		w.logger.Debug("join tab watcher stopped")
	}()
	return out, nil
}

func idSet(events []models.Event) string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID.String()
	}
	return strings.Join(ids, ",")
}
