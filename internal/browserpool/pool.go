// Package browserpool implements the Browser Pool described in spec §4.3: a
// single lazily-started headless browser process shared across fetches,
// with tab leasing bounded by a counting semaphore so the Search
// Orchestrator's fan-out can never spawn more concurrent tabs than the
// operator configured.
package browserpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/a3s-lab/a3s-search/internal/resource"
)

const defaultCapacity = 4

// Options configures a Pool.
type Options struct {
	BinaryPath string // empty triggers DiscoverBinary
	CacheDir   string
	Capacity   int  // max concurrent tab leases; <= 0 uses defaultCapacity
	Headless   bool // not read: the browser process always starts headless
	Admission  *resource.Monitor
}

// Tab is a leased browser tab. Callers must call Release exactly once,
// on every exit path including context cancellation, to return the slot.
type Tab struct {
	Ctx     context.Context
	Release func()
}

// Pool owns one browser process and leases tabs out of it.
type Pool struct {
	opts Options
	sem  chan struct{}

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	started       bool
}

// New creates a Pool. The underlying browser process is not started until
// the first Lease call.
func New(opts Options) *Pool {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	return &Pool{opts: opts, sem: make(chan struct{}, opts.Capacity)}
}

// Lease blocks until a tab slot is available and the shared browser process
// is running. When no process is running yet and a resource monitor is
// configured, the monitor must admit starting one first; leases against an
// already-running browser never wait on it. It returns a Tab bound to ctx;
// the caller must call Tab.Release on every exit path.
func (p *Pool) Lease(ctx context.Context) (*Tab, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	release := func() { <-p.sem }

	if p.opts.Admission != nil {
		p.mu.Lock()
		running := p.started && p.browserCtx.Err() == nil
		p.mu.Unlock()
		if !running {
			if err := p.opts.Admission.Admit(ctx); err != nil {
				release()
				return nil, err
			}
		}
	}

	browserCtx, err := p.ensureStarted(ctx)
	if err != nil {
		release()
		return nil, &BrowserStartError{Cause: err}
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	// Cancelling ctx closes the tab, so ctx's deadline bounds every action
	// run against tab.Ctx.
	stopWatch := context.AfterFunc(ctx, tabCancel)

	var once sync.Once
	return &Tab{
		Ctx: tabCtx,
		Release: func() {
			once.Do(func() {
				stopWatch()
				tabCancel()
				release()
			})
		},
	}, nil
}

// ensureStarted lazily spawns the shared browser process, restarting it if
// a previous instance crashed (its context reports an error).
func (p *Pool) ensureStarted(ctx context.Context) (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started && p.browserCtx.Err() == nil {
		return p.browserCtx, nil
	}

	if p.started {
		log.Warn().Msg("browserpool: shared browser process died, restarting")
		p.browserCancel()
		p.allocCancel()
	}

	binary := p.opts.BinaryPath
	if binary == "" {
		discovered, err := DiscoverBinary(p.opts.CacheDir)
		if err != nil {
			return nil, err
		}
		binary = discovered
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(binary),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", false),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// chromedp.NewContext does not spawn the browser process until the
	// first action runs; Run with no actions forces the spawn so that
	// ensureStarted either fully succeeds or fully fails here.
	if err := chromedp.Run(browserCtx); err != nil {
		allocCancel()
		return nil, fmt.Errorf("starting browser process: %w", err)
	}

	p.allocCtx, p.allocCancel = allocCtx, allocCancel
	p.browserCtx, p.browserCancel = browserCtx, browserCancel
	p.started = true

	return p.browserCtx, nil
}

// Close shuts down the shared browser process, if running.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.browserCancel()
	p.allocCancel()
	p.started = false
}

// BrowserStartError wraps a failure to launch or reach the shared browser
// process, surfaced by the Browser fetcher as BrowserUnavailableError.
type BrowserStartError struct{ Cause error }

func (e *BrowserStartError) Error() string { return fmt.Sprintf("browser start failed: %v", e.Cause) }
func (e *BrowserStartError) Unwrap() error { return e.Cause }
