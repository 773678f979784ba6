package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// ChromeFetcher drives a headless Chrome through chromedp. Each Fetch call
// launches its own browser process and tears it down before returning.
type ChromeFetcher struct {
	execPath string
}

// NewChrome creates a chromedp-backed fetcher. execPath may be empty, in
// which case FindChromePath is consulted at fetch time.
func NewChrome(execPath string) *ChromeFetcher {
	return &ChromeFetcher{execPath: execPath}
}

// allocatorOptions builds the exec allocator flags for one browser launch.
func (f *ChromeFetcher) allocatorOptions(userAgent string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(Viewport.Width, Viewport.Height),
		chromedp.UserAgent(userAgent),
	)
	if path := resolveChromePath(f.execPath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts
}

// Fetch navigates to targetURL and returns the rendered DOM.
func (f *ChromeFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	opts = opts.withDefaults()
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
		Engine:    f.Type(),
	}

	log := logger.With("engine", f.Type(), "url", targetURL)
	log.DebugContext(ctx, "starting browser", "wait_for", opts.WaitFor, "timeout", opts.Timeout)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions(opts.UserAgent)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelTimeout()

	watcher := newLifecycleWatcher()
	chromedp.ListenTarget(browserCtx, watcher.handle)

	var html, title, location string
	actions := []chromedp.Action{
		network.Enable(),
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(targetURL),
	}
	// Navigate already returns after the load event, which follows
	// DOMContentLoaded; only network idle needs an extra wait.
	if opts.WaitFor == WaitNetworkIdle {
		actions = append(actions, watcher.waitFor(WaitNetworkIdle.lifecycleName()))
	}
	actions = append(actions,
		chromedp.Location(&location),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		log.DebugContext(ctx, "run failed", "error", err)
		return result, wrapDeadline(timeoutCtx, err)
	}

	result.HTML = html
	result.Title = title
	result.FinalURL = location
	result.StatusCode = watcher.status()

	log.DebugContext(ctx, "fetch complete",
		"final_url", location,
		"status", result.StatusCode,
		"html_size", len(html))

	return result, nil
}

// Type returns the engine name.
func (f *ChromeFetcher) Type() string {
	return string(EngineChromedp)
}

// lifecycleWatcher records Page.lifecycleEvent names per frame so a wait can
// be satisfied by events that arrived before it started.
type lifecycleWatcher struct {
	mu         sync.Mutex
	events     map[cdp.FrameID]map[string]bool
	statusCode int
	notify     chan struct{}
}

func newLifecycleWatcher() *lifecycleWatcher {
	return &lifecycleWatcher{
		events: make(map[cdp.FrameID]map[string]bool),
		notify: make(chan struct{}, 1),
	}
}

// handle is registered with chromedp.ListenTarget.
func (w *lifecycleWatcher) handle(ev interface{}) {
	switch ev := ev.(type) {
	case *page.EventLifecycleEvent:
		w.mu.Lock()
		// "init" starts a new document in the frame; earlier events belong
		// to the previous one.
		if ev.Name == "init" || w.events[ev.FrameID] == nil {
			w.events[ev.FrameID] = make(map[string]bool)
		}
		w.events[ev.FrameID][ev.Name] = true
		w.mu.Unlock()

		select {
		case w.notify <- struct{}{}:
		default:
		}
	case *network.EventResponseReceived:
		if ev.Type != network.ResourceTypeDocument || ev.Response == nil {
			return
		}
		w.mu.Lock()
		if w.statusCode == 0 {
			w.statusCode = int(ev.Response.Status)
		}
		w.mu.Unlock()
	}
}

func (w *lifecycleWatcher) seen(frameID cdp.FrameID, name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.events[frameID][name]
}

func (w *lifecycleWatcher) status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.statusCode
}

// waitFor blocks until the main frame reports the named lifecycle event.
func (w *lifecycleWatcher) waitFor(name string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("read frame tree: %w", err)
		}
		frameID := tree.Frame.ID

		logger.DebugContext(ctx, "chromedp waiting for lifecycle event", "event", name, "frame", frameID)
		for {
			if w.seen(frameID, name) {
				return nil
			}
			select {
			case <-w.notify:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
