package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// RodFetcher drives a headless Chrome through go-rod. Like ChromeFetcher it
// launches one browser per call.
type RodFetcher struct {
	execPath string
}

// NewRod creates a rod-backed fetcher.
func NewRod(execPath string) *RodFetcher {
	return &RodFetcher{execPath: execPath}
}

// newLauncher configures a headless browser launch.
func (f *RodFetcher) newLauncher(ctx context.Context) *launcher.Launcher {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("window-size", fmt.Sprintf("%d,%d", Viewport.Width, Viewport.Height))
	if path := resolveChromePath(f.execPath); path != "" {
		l = l.Bin(path)
	}
	return l
}

// Fetch navigates to targetURL and returns the rendered DOM.
func (f *RodFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	opts = opts.withDefaults()
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
		Engine:    f.Type(),
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	l := f.newLauncher(timeoutCtx)
	controlURL, err := l.Launch()
	if err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("launch browser: %w", err))
	}
	defer func() {
		l.Kill()
		l.Cleanup()
	}()
	logger.DebugContext(ctx, "rod browser launched", "control_url", controlURL)

	browser := rod.New().ControlURL(controlURL).Context(timeoutCtx)
	if err := browser.Connect(); err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("connect to browser: %w", err))
	}
	defer func() { _ = browser.Close() }()

	p, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("open page: %w", err))
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  Viewport.Width,
		Height: Viewport.Height,
	}); err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("set viewport: %w", err))
	}
	if err := p.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("set user agent: %w", err))
	}

	// The wait must be registered before navigating or the event can be missed.
	wait := p.WaitNavigation(proto.PageLifecycleEventName(opts.WaitFor.lifecycleName()))
	logger.DebugContext(ctx, "rod navigating", "url", targetURL, "wait_for", opts.WaitFor)
	if err := p.Navigate(targetURL); err != nil {
		return result, wrapDeadline(timeoutCtx, err)
	}
	wait()
	if err := timeoutCtx.Err(); err != nil {
		return result, wrapDeadline(timeoutCtx, err)
	}

	html, err := p.HTML()
	if err != nil {
		return result, wrapDeadline(timeoutCtx, fmt.Errorf("read document: %w", err))
	}
	result.HTML = html

	if info, err := p.Info(); err == nil {
		result.Title = info.Title
		result.FinalURL = info.URL
	}

	logger.DebugContext(ctx, "rod fetch complete", "url", targetURL, "final_url", result.FinalURL, "html_size", len(html))
	return result, nil
}

// Type returns the engine name.
func (f *RodFetcher) Type() string {
	return string(EngineRod)
}
