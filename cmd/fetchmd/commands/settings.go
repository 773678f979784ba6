package commands

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/fetchmd/internal/output"
	"github.com/jmylchreest/fetchmd/pkg/cleaner"
	"github.com/jmylchreest/fetchmd/pkg/fetcher"
)

// settings is the resolved configuration for one invocation, merged from
// flags, FETCHMD_* environment variables and the config file.
type settings struct {
	URL           string
	Output        string
	TimeoutMS     int    `flag:"timeout" validate:"gt=0"`
	WaitFor       string `flag:"wait-for" validate:"oneof=load domcontentloaded networkidle"`
	StripScripts  bool
	IncludeImages bool
	HeadingStyle  string `flag:"heading-style" validate:"oneof=atx underlined"`
	Engine        string `flag:"engine" validate:"oneof=chromedp rod static auto"`
	Format        string `flag:"format" validate:"oneof=markdown json yaml"`
	ChromePath    string `flag:"chrome-path" validate:"omitempty,file"`
	UserAgent     string
	Verbose       bool
	Debug         bool
	LogJSON       bool
}

// loadSettings reads settings from v. Enum values are lower-cased so that
// "NetworkIdle" and "networkidle" are equivalent.
func loadSettings(v *viper.Viper, rawURL string) settings {
	return settings{
		URL:           strings.TrimSpace(rawURL),
		Output:        v.GetString("output"),
		TimeoutMS:     v.GetInt("timeout"),
		WaitFor:       strings.ToLower(v.GetString("wait-for")),
		StripScripts:  !v.GetBool("no-strip-scripts"),
		IncludeImages: !v.GetBool("no-images"),
		HeadingStyle:  strings.ToLower(v.GetString("heading-style")),
		Engine:        strings.ToLower(v.GetString("engine")),
		Format:        strings.ToLower(v.GetString("format")),
		ChromePath:    v.GetString("chrome-path"),
		UserAgent:     v.GetString("user-agent"),
		Verbose:       v.GetBool("verbose"),
		Debug:         v.GetBool("debug"),
		LogJSON:       v.GetBool("log-json"),
	}
}

var settingsValidator = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	return val
}

// validate checks every field and reports the first problem in flag terms.
func (s settings) validate() error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid --%s value %q (use %s)", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Errorf("--%s must be greater than %s", fe.Field(), fe.Param())
	case "file":
		return fmt.Errorf("--%s %q is not an existing file", fe.Field(), fe.Value())
	default:
		return fmt.Errorf("invalid --%s value %q", fe.Field(), fe.Value())
	}
}

// checkURL accepts only absolute http and https URLs.
func checkURL(raw string) error {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

func (s settings) fetcherConfig() fetcher.Config {
	return fetcher.Config{
		Engine:     fetcher.Engine(s.Engine),
		ChromePath: s.ChromePath,
	}
}

func (s settings) fetchOptions() (fetcher.Options, error) {
	wait, err := fetcher.ParseWaitCondition(s.WaitFor)
	if err != nil {
		return fetcher.Options{}, err
	}
	return fetcher.Options{
		Timeout:   time.Duration(s.TimeoutMS) * time.Millisecond,
		WaitFor:   wait,
		UserAgent: s.UserAgent,
	}, nil
}

func (s settings) conversionOptions() (cleaner.Options, error) {
	style, err := cleaner.ParseHeadingStyle(s.HeadingStyle)
	if err != nil {
		return cleaner.Options{}, err
	}
	return cleaner.Options{
		StripNoise:    s.StripScripts,
		IncludeImages: s.IncludeImages,
		HeadingStyle:  style,
	}, nil
}

func (s settings) outputFormat() (output.Format, error) {
	return output.ParseFormat(s.Format)
}

// joinNames renders an enum list for flag help, e.g. "atx, underlined".
func joinNames[T ~string](vals []T) string {
	names := make([]string, len(vals))
	for i, v := range vals {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
