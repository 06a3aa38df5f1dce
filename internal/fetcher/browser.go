package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/a3s-lab/a3s-search/internal/browserpool"
)

// TabLeaser is satisfied by *browserpool.Pool.
type TabLeaser interface {
	Lease(ctx context.Context) (*browserpool.Tab, error)
}

// BrowserFetcher renders a page in a pooled headless browser tab and
// returns the resulting DOM.
type BrowserFetcher struct {
	pool TabLeaser
}

// NewBrowserFetcher creates a BrowserFetcher bound to the given tab pool.
func NewBrowserFetcher(pool TabLeaser) *BrowserFetcher {
	return &BrowserFetcher{pool: pool}
}

// Fetch navigates to rawURL in a leased tab, applies opts.Wait, and returns
// the rendered outer HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string, opts Options) (*Page, error) {
	tab, err := f.pool.Lease(ctx)
	if err != nil {
		var startErr *browserpool.BrowserStartError
		if errors.As(err, &startErr) {
			return nil, &BrowserUnavailableError{Cause: err}
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{}
		}
		return nil, &BrowserUnavailableError{Cause: err}
	}
	defer tab.Release()

	if err := chromedp.Run(tab.Ctx, chromedp.Navigate(rawURL)); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{}
		}
		return nil, &NavigationError{Cause: err}
	}

	if err := applyWait(tab.Ctx, opts.Wait); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{}
		}
		return nil, &NavigationError{Cause: err}
	}

	var html string
	if err := chromedp.Run(tab.Ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &NavigationError{Cause: err}
	}

	return &Page{URL: rawURL, HTML: []byte(html), MimeType: "text/html"}, nil
}

// applyWait blocks tabCtx for the duration or condition named by wait.
// Selector waits get their own bounded sub-context so a selector that
// never appears fails fast instead of hanging until the outer deadline.
// WaitKindNetworkIdle sleeps for wait.NetworkIdle (500ms when unset); it
// does not observe the page's network activity.
func applyWait(tabCtx context.Context, wait WaitStrategy) error {
	switch wait.Kind {
	case WaitKindFixedDelay:
		return chromedp.Run(tabCtx, chromedp.Sleep(wait.Delay))
	case WaitKindSelector:
		timeout := wait.SelectorTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		waitCtx, cancel := context.WithTimeout(tabCtx, timeout)
		defer cancel()
		return chromedp.Run(waitCtx, chromedp.WaitVisible(wait.Selector, chromedp.ByQuery))
	case WaitKindNetworkIdle:
		idle := wait.NetworkIdle
		if idle <= 0 {
			idle = 500 * time.Millisecond
		}
		return chromedp.Run(tabCtx, chromedp.Sleep(idle))
	default:
		return nil
	}
}
