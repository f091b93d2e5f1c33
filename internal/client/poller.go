package client

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"compliancedocs/internal/model"
)

// DefaultPollInterval is how often a Poller refreshes its feed.
const DefaultPollInterval = 30 * time.Second

// FetchFunc loads one notification feed.
type FetchFunc func(ctx context.Context) (*model.NotificationFeed, error)

// Poller refreshes a notification feed on an interval and on demand.
//
// Only the newest poll may deliver: a result that arrives after Stop, or after a later poll
// was started, is dropped. A tick that lands while a fetch is still running is skipped, so
// fetches slower than the interval still deliver; Refresh always starts a fresh poll. When a
// fetch fails the last delivered feed is delivered again with Stale set. Deliver runs on the
// poller's goroutines and must not call Stop.
type Poller struct {
	fetch    FetchFunc
	deliver  func(model.NotificationFeed)
	onError  func(error)
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	gen     uint64
	running int
	stopped bool
	last    *model.NotificationFeed
	cancel  context.CancelFunc

	deliverMu sync.Mutex
	refresh   chan struct{}
	done      chan struct{}
	inflight  sync.WaitGroup
	stopOnce  sync.Once
}

type PollerOption func(*Poller)

func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithErrorHandler is called with fetch errors that have no last-known feed to fall back to.
func WithErrorHandler(fn func(error)) PollerOption {
	return func(p *Poller) { p.onError = fn }
}

func WithPollerLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) { p.log = l }
}

func NewPoller(fetch FetchFunc, deliver func(model.NotificationFeed), opts ...PollerOption) *Poller {
	p := &Poller{
		fetch:    fetch,
		deliver:  deliver,
		onError:  func(error) {},
		interval: DefaultPollInterval,
		log:      slog.Default(),
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SubjectFeedPoller polls a subject's notifications.
func (c *Client) SubjectFeedPoller(subjectID string, deliver func(model.NotificationFeed), opts ...PollerOption) *Poller {
	return NewPoller(func(ctx context.Context) (*model.NotificationFeed, error) {
		return c.Notifications(ctx, subjectID)
	}, deliver, opts...)
}

// AdminFeedPoller polls the review queue.
func (c *Client) AdminFeedPoller(deliver func(model.NotificationFeed), opts ...PollerOption) *Poller {
	return NewPoller(c.AdminNotifications, deliver, opts...)
}

// Start polls once immediately and then every interval until ctx ends or Stop is called.
// Starting twice, or after Stop, does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.cancel != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	go p.run(ctx)
}

// Refresh requests an immediate poll. Calls made while one is already queued are merged.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop ends polling and waits for in-flight fetches. Their results are discarded.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.gen++
		cancel := p.cancel
		p.mu.Unlock()
		if cancel != nil {
			cancel()
			<-p.done
		}
		p.inflight.Wait()
	})
}

// Last returns the most recent successfully fetched feed.
func (p *Poller) Last() (model.NotificationFeed, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return model.NotificationFeed{}, false
	}
	return cloneFeed(*p.last), true
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx, false)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, false)
		case <-p.refresh:
			p.poll(ctx, true)
			ticker.Reset(p.interval)
		}
	}
}

// poll starts a fetch as the newest generation. Unless forced it leaves a running fetch alone.
func (p *Poller) poll(ctx context.Context, force bool) {
	p.mu.Lock()
	if p.stopped || (!force && p.running > 0) {
		p.mu.Unlock()
		return
	}
	p.gen++
	gen := p.gen
	p.running++
	p.mu.Unlock()

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		feed, err := p.fetch(ctx)
		p.complete(gen, feed, err)
		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}()
}

func (p *Poller) complete(gen uint64, feed *model.NotificationFeed, err error) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	if p.stopped || gen != p.gen {
		p.mu.Unlock()
		return
	}
	var out model.NotificationFeed
	switch {
	case err == nil:
		stored := cloneFeed(*feed)
		p.last = &stored
		out = cloneFeed(stored)
	case p.last != nil:
		out = cloneFeed(*p.last)
		out.Stale = true
	}
	hasLast := p.last != nil
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("notification poll failed", "error", err, "serving_last_known", hasLast)
		if !hasLast {
			p.onError(err)
			return
		}
	}
	p.deliver(out)
}

func cloneFeed(f model.NotificationFeed) model.NotificationFeed {
	f.Notifications = slices.Clone(f.Notifications)
	return f
}
