package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures the Engine.
type Options struct {
	// Headless controls whether Chrome runs without a UI.
	Headless bool

	// NavigationTimeout bounds each navigation, including the wait for
	// the network to go idle.
	NavigationTimeout time.Duration

	// SettleWait is an extra delay after network idle before extraction,
	// giving client-side rendering time to finish. Zero disables it.
	SettleWait time.Duration

	// Selector is the CSS selector whose matching elements are extracted.
	Selector string

	// ViewportWidth and ViewportHeight fix the tab viewport.
	ViewportWidth  int
	ViewportHeight int
}

// Engine is a chromedp-backed Fetcher. It launches one Chrome process and
// opens an isolated tab per Fetch call.
type Engine struct {
	opts Options

	allocCtx    context.Context
	allocCancel context.CancelFunc

	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewEngine launches the browser process and returns an Engine bound to it.
// The caller must Close the Engine to shut the browser down.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	// DefaultExecAllocatorOptions includes chromedp.Headless which adds
	// --headless. For a visible browser we must rebuild the option list
	// without it; the option values are functions and cannot be filtered
	// by comparison, so we skip it by its fixed position (index 2).
	var allocOpts []chromedp.ExecAllocatorOption
	if opts.Headless {
		allocOpts = append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	} else {
		defaults := chromedp.DefaultExecAllocatorOptions[:]
		allocOpts = make([]chromedp.ExecAllocatorOption, 0, len(defaults)+1)
		allocOpts = append(allocOpts, defaults[0]) // NoFirstRun
		allocOpts = append(allocOpts, defaults[1]) // NoDefaultBrowserCheck
		allocOpts = append(allocOpts, defaults[3:]...)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run an empty task list to start the browser process now, so a
	// missing Chrome binary fails here rather than inside the first fetch.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Engine{
		opts:          opts,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close shuts down the browser process.
func (e *Engine) Close() {
	e.browserCancel()
	e.allocCancel()
}

// Fetch opens a new tab, navigates to url, waits for the network to go idle
// (bounded by NavigationTimeout), optionally waits SettleWait longer, and
// returns the joined text of all elements matching the selector.
func (e *Engine) Fetch(ctx context.Context, url string) (string, error) {
	// Each URL gets its own tab so concurrent fetches stay isolated.
	tabCtx, tabCancel := chromedp.NewContext(e.browserCtx)
	defer tabCancel()

	// Propagate caller cancellation into the tab.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	if err := e.navigate(tabCtx, url); err != nil {
		return "", err
	}

	if e.opts.SettleWait > 0 {
		select {
		case <-time.After(e.opts.SettleWait):
		case <-tabCtx.Done():
			return "", tabCtx.Err()
		}
	}

	return e.extract(tabCtx)
}

// navigate drives the tab to url and waits for the networkIdle lifecycle
// event of that navigation. The whole step is bounded by NavigationTimeout;
// a page that never goes idle is treated as a failed fetch.
//
// Idle events are matched against the loader ID returned by Page.navigate.
// Enabling lifecycle events replays the current state of the tab's initial
// about:blank document, which reaches network-idle on its own, so an
// unfiltered wait can be satisfied by that stale event and extraction would
// run after only the load event on exactly the client-rendered pages where
// the idle wait matters.
func (e *Engine) navigate(tabCtx context.Context, url string) error {
	navCtx, navCancel := context.WithTimeout(tabCtx, e.opts.NavigationTimeout)
	defer navCancel()

	gate := newIdleGate()
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		if lc, ok := ev.(*page.EventLifecycleEvent); ok && lc.Name == "networkIdle" {
			gate.observe(lc.LoaderID)
		}
	})

	err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(e.opts.ViewportWidth), int64(e.opts.ViewportHeight)),
		// Lifecycle events are off by default; enable them before
		// navigating so networkIdle is actually reported.
		chromedp.ActionFunc(func(ctx context.Context) error {
			return page.SetLifecycleEventsEnabled(true).Do(ctx)
		}),
		// Page.navigate directly rather than chromedp.Navigate: the
		// returned loader ID identifies this navigation, and the load
		// event chromedp.Navigate waits for is subsumed by networkIdle.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, loaderID, errorText, _, err := page.Navigate(url).Do(ctx)
			if err != nil {
				return err
			}
			if errorText != "" {
				return errors.New(errorText)
			}
			gate.setTarget(loaderID)
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	select {
	case <-gate.idle:
		return nil
	case <-navCtx.Done():
		return fmt.Errorf("waiting for network idle: %w", navCtx.Err())
	}
}

// idleGate matches networkIdle events against the loader of the navigation
// in flight. Events arrive on the CDP event goroutine while the loader ID
// arrives on the navigate call, in either order, so observations for a
// not-yet-known target are remembered and re-checked when the target is set.
type idleGate struct {
	mu     sync.Mutex
	target cdp.LoaderID
	seen   map[cdp.LoaderID]bool
	idle   chan struct{}
}

func newIdleGate() *idleGate {
	return &idleGate{
		seen: make(map[cdp.LoaderID]bool),
		idle: make(chan struct{}, 1),
	}
}

// observe records a networkIdle event for the given loader, signalling when
// it belongs to the target navigation. Events for other loaders, such as the
// tab's initial about:blank document, are ignored.
func (g *idleGate) observe(id cdp.LoaderID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.target == "" {
		g.seen[id] = true
		return
	}
	if id == g.target {
		g.signal()
	}
}

// setTarget binds the gate to a navigation's loader, signalling immediately
// when that loader's idle event was already observed.
func (g *idleGate) setTarget(id cdp.LoaderID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.target = id
	if g.seen[id] {
		g.signal()
	}
}

// signal marks the gate idle without blocking on repeat events.
func (g *idleGate) signal() {
	select {
	case g.idle <- struct{}{}:
	default:
	}
}

// extract reads the text of every element matching the selector inside the
// page. innerText is preferred (it reflects rendered visibility); textContent
// is the fallback, and an element where both fail contributes an empty
// string. Trimmed nonempty blocks are joined with a blank line.
func (e *Engine) extract(tabCtx context.Context) (string, error) {
	selector, err := json.Marshal(e.opts.Selector)
	if err != nil {
		return "", fmt.Errorf("failed to encode selector: %w", err)
	}

	script := fmt.Sprintf(`(() => {
	const parts = [];
	for (const el of document.querySelectorAll(%s)) {
		let t = '';
		try { t = el.innerText; } catch (e) { t = null; }
		if (t === null || t === undefined) {
			t = el.textContent || '';
		}
		parts.push(t);
	}
	return parts;
})()`, selector)

	var parts []string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate(script, &parts)); err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return joinBlocks(parts), nil
}

// joinBlocks trims each extracted element text and joins the nonempty blocks
// with a blank line, matching how the content reads on the page.
func joinBlocks(parts []string) string {
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			blocks = append(blocks, trimmed)
		}
	}
	return strings.Join(blocks, "\n\n")
}
