package cleaner

import (
	"errors"
	"strings"
	"testing"
)

// --- Options Tests ---

func TestParseHeadingStyle(t *testing.T) {
	tests := []struct {
		input   string
		want    HeadingStyle
		wantErr bool
	}{
		{"atx", HeadingATX, false},
		{"underlined", HeadingUnderlined, false},
		{" ATX ", HeadingATX, false},
		{"setext", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHeadingStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeadingStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHeadingStyle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.StripNoise || !opts.IncludeImages || opts.HeadingStyle != HeadingATX {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

// --- ChainCleaner Tests ---

// upperCleaner is a test cleaner that upper-cases its input
type upperCleaner struct{}

func (c *upperCleaner) Clean(s string) (string, error) { return strings.ToUpper(s), nil }
func (c *upperCleaner) Name() string                   { return "upper" }

// errorCleaner is a test cleaner that always returns an error
type errorCleaner struct{}

func (c *errorCleaner) Clean(string) (string, error) { return "", errors.New("test error") }
func (c *errorCleaner) Name() string                 { return "error" }

func TestChainCleaner_Empty(t *testing.T) {
	c := NewChain()

	input := "unchanged content"
	got, err := c.Clean(input)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != input {
		t.Errorf("Clean() = %q, want %q", got, input)
	}
}

func TestChainCleaner_Order(t *testing.T) {
	c := NewChain(&upperCleaner{}, NewWhitespace())

	got, err := c.Clean("  a\n\n\n\n\nb  ")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if got != "A\n\n\nB" {
		t.Errorf("Clean() = %q, want %q", got, "A\n\n\nB")
	}
}

func TestChainCleaner_ErrorPropagation(t *testing.T) {
	c := NewChain(NewWhitespace(), &errorCleaner{}, &upperCleaner{})

	got, err := c.Clean("test")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("expected error containing 'test error', got %v", err)
	}
	if got != "" {
		t.Errorf("expected no partial output, got %q", got)
	}
}

func TestChainCleaner_Name(t *testing.T) {
	tests := []struct {
		name     string
		cleaners []Cleaner
		want     string
	}{
		{"empty", []Cleaner{}, "chain()"},
		{"single", []Cleaner{NewWhitespace()}, "chain(whitespace)"},
		{"double", []Cleaner{NewNoise(), NewWhitespace()}, "chain(noise->whitespace)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChain(tt.cleaners...)
			if got := c.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
