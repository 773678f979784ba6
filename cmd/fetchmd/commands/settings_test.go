package commands

import (
	"testing"
	"time"

	"github.com/jmylchreest/fetchmd/internal/output"
	"github.com/jmylchreest/fetchmd/pkg/cleaner"
	"github.com/jmylchreest/fetchmd/pkg/fetcher"
)

func TestJoinNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"engines", joinNames(fetcher.Engines), "chromedp, rod, static, auto"},
		{"heading_styles", joinNames(cleaner.HeadingStyles), "atx, underlined"},
		{"empty", joinNames([]output.Format{}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("joinNames() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSettings_Options(t *testing.T) {
	s := settings{
		TimeoutMS:     2500,
		WaitFor:       "load",
		StripScripts:  false,
		IncludeImages: true,
		HeadingStyle:  "underlined",
		Format:        "yaml",
		UserAgent:     "test-agent",
	}

	fo, err := s.fetchOptions()
	if err != nil {
		t.Fatalf("fetchOptions() error = %v", err)
	}
	if fo.Timeout != 2500*time.Millisecond || fo.WaitFor != fetcher.WaitLoad || fo.UserAgent != "test-agent" {
		t.Errorf("fetchOptions() = %+v", fo)
	}

	co, err := s.conversionOptions()
	if err != nil {
		t.Fatalf("conversionOptions() error = %v", err)
	}
	if co.StripNoise || !co.IncludeImages || co.HeadingStyle != cleaner.HeadingUnderlined {
		t.Errorf("conversionOptions() = %+v", co)
	}

	format, err := s.outputFormat()
	if err != nil {
		t.Fatalf("outputFormat() error = %v", err)
	}
	if format != output.FormatYAML {
		t.Errorf("outputFormat() = %q", format)
	}
}

func TestSettings_OptionsRejectUnknownValues(t *testing.T) {
	tests := []struct {
		name string
		s    settings
		call func(settings) error
	}{
		{"wait_for", settings{WaitFor: "idle"}, func(s settings) error { _, err := s.fetchOptions(); return err }},
		{"heading_style", settings{HeadingStyle: "setext"}, func(s settings) error { _, err := s.conversionOptions(); return err }},
		{"format", settings{Format: "xml"}, func(s settings) error { _, err := s.outputFormat(); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(tt.s); err == nil {
				t.Error("expected error")
			}
		})
	}
}
