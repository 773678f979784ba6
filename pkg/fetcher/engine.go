package fetcher

import (
	"fmt"
	"strings"
)

// Engine names a Fetcher implementation.
type Engine string

const (
	EngineChromedp Engine = "chromedp"
	EngineRod      Engine = "rod"
	EngineStatic   Engine = "static"
	EngineAuto     Engine = "auto"
)

// Engines lists every selectable engine.
var Engines = []Engine{EngineChromedp, EngineRod, EngineStatic, EngineAuto}

// Config selects and configures an engine.
type Config struct {
	Engine     Engine
	ChromePath string // browser binary; discovered when empty
}

// New creates the fetcher for cfg.Engine. An empty engine selects chromedp.
func New(cfg Config) (Fetcher, error) {
	switch Engine(strings.ToLower(string(cfg.Engine))) {
	case EngineChromedp, "":
		return NewChrome(cfg.ChromePath), nil
	case EngineRod:
		return NewRod(cfg.ChromePath), nil
	case EngineStatic:
		return NewStatic(), nil
	case EngineAuto:
		return NewAuto(NewStatic(), NewChrome(cfg.ChromePath)), nil
	default:
		return nil, fmt.Errorf("unknown engine: %s (use chromedp, rod, static or auto)", cfg.Engine)
	}
}
