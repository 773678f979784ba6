package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// --- WaitCondition Tests ---

func TestParseWaitCondition(t *testing.T) {
	tests := []struct {
		input   string
		want    WaitCondition
		wantErr bool
	}{
		{"load", WaitLoad, false},
		{"domcontentloaded", WaitDOMContentLoaded, false},
		{"networkidle", WaitNetworkIdle, false},
		{"  NetworkIdle ", WaitNetworkIdle, false},
		{"", "", true},
		{"idle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWaitCondition(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWaitCondition(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWaitCondition(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWaitCondition_LifecycleName(t *testing.T) {
	tests := map[WaitCondition]string{
		WaitLoad:             "load",
		WaitDOMContentLoaded: "DOMContentLoaded",
		WaitNetworkIdle:      "networkIdle",
	}
	for cond, want := range tests {
		if got := cond.lifecycleName(); got != want {
			t.Errorf("%s.lifecycleName() = %q, want %q", cond, got, want)
		}
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	if got.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", got.Timeout, DefaultTimeout)
	}
	if got.WaitFor != WaitNetworkIdle {
		t.Errorf("WaitFor = %q, want %q", got.WaitFor, WaitNetworkIdle)
	}
	if got.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", got.UserAgent)
	}

	custom := Options{Timeout: time.Second, WaitFor: WaitLoad, UserAgent: "ua"}.withDefaults()
	if custom.Timeout != time.Second || custom.WaitFor != WaitLoad || custom.UserAgent != "ua" {
		t.Errorf("withDefaults overwrote explicit values: %+v", custom)
	}
}

func TestWrapDeadline(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	err := wrapDeadline(expired, errors.New("navigation stalled"))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "navigation stalled") {
		t.Errorf("expected wrapped message preserved, got %q", err)
	}

	plain := wrapDeadline(context.Background(), errors.New("net::ERR_NAME_NOT_RESOLVED"))
	if errors.Is(plain, ErrTimeout) {
		t.Error("non-deadline error should not be marked as timeout")
	}
	if plain.Error() != "net::ERR_NAME_NOT_RESOLVED" {
		t.Errorf("message should pass through verbatim, got %q", plain)
	}
}

// --- Engine Factory Tests ---

func TestNew_Engines(t *testing.T) {
	tests := []struct {
		engine   Engine
		wantType string
		wantErr  bool
	}{
		{"", "chromedp", false},
		{EngineChromedp, "chromedp", false},
		{"ChromeDP", "chromedp", false},
		{EngineRod, "rod", false},
		{EngineStatic, "static", false},
		{EngineAuto, "auto", false},
		{"playwright", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			f, err := New(Config{Engine: tt.engine})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := f.Type(); got != tt.wantType {
				t.Errorf("Type() = %q, want %q", got, tt.wantType)
			}
		})
	}
}

// --- Chrome discovery Tests ---

func TestFindChromePath(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		if name == "chromium" {
			return "/opt/bin/chromium", nil
		}
		return "", fmt.Errorf("%s: not found", name)
	}
	if got := FindChromePath(); got != "/opt/bin/chromium" {
		t.Errorf("FindChromePath() = %q, want /opt/bin/chromium", got)
	}

	lookPath = func(name string) (string, error) {
		return "", fmt.Errorf("%s: not found", name)
	}
	if got := FindChromePath(); got != "" {
		t.Errorf("FindChromePath() = %q, want empty", got)
	}
	if got := resolveChromePath("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("resolveChromePath() = %q, want explicit path", got)
	}
}

func TestChromeFetcher_AllocatorOptions_ExplicitPath(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		t.Errorf("lookPath(%q) called despite explicit path", name)
		return "", errors.New("unexpected")
	}

	f := NewChrome("/custom/chrome")
	opts := f.allocatorOptions("ua")
	if len(opts) == 0 {
		t.Fatal("expected allocator options")
	}
}

// --- StaticFetcher Tests ---

func TestStaticFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title> Hello Page </title></head><body><h1>Hi</h1></body></html>`)
	}))
	defer srv.Close()

	f := NewStatic()
	got, err := f.Fetch(context.Background(), srv.URL, Options{UserAgent: "fetchmd-test"})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if !strings.Contains(got.HTML, "<h1>Hi</h1>") {
		t.Errorf("expected body in HTML, got %q", got.HTML)
	}
	if got.Title != "Hello Page" {
		t.Errorf("Title = %q, want %q", got.Title, "Hello Page")
	}
	if got.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", got.StatusCode)
	}
	if got.Engine != "static" {
		t.Errorf("Engine = %q, want static", got.Engine)
	}
	if got.FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	if gotUA != "fetchmd-test" {
		t.Errorf("server saw user agent %q", gotUA)
	}
}

func TestStaticFetcher_Fetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewStatic().Fetch(context.Background(), srv.URL, Options{})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("404 should not be reported as timeout: %v", err)
	}
}

func TestStaticFetcher_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewStatic().Fetch(context.Background(), srv.URL, Options{Timeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestExtractTitle(t *testing.T) {
	if got := extractTitle("<title>A</title><title>B</title>"); got != "A" {
		t.Errorf("extractTitle() = %q, want A", got)
	}
	if got := extractTitle("<p>no title</p>"); got != "" {
		t.Errorf("extractTitle() = %q, want empty", got)
	}
}
