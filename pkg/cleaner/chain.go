package cleaner

import (
	"strings"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// ChainCleaner applies multiple cleaners in sequence.
type ChainCleaner struct {
	cleaners []Cleaner
}

// NewChain creates a cleaner that applies cleaners in the order provided.
//
// Example:
//
//	chain := cleaner.NewChain(
//	    cleaner.NewNoise(),
//	    cleaner.NewMarkdown(cleaner.DefaultOptions()),
//	    cleaner.NewWhitespace(),
//	)
func NewChain(cleaners ...Cleaner) *ChainCleaner {
	return &ChainCleaner{
		cleaners: cleaners,
	}
}

// Clean applies all cleaners in sequence, stopping at the first error.
func (c *ChainCleaner) Clean(content string) (string, error) {
	var err error
	for _, cleaner := range c.cleaners {
		before := len(content)
		content, err = cleaner.Clean(content)
		if err != nil {
			return "", err
		}
		logger.Debug("cleaner stage complete", "stage", cleaner.Name(), "input_size", before, "output_size", len(content))
	}
	return content, nil
}

// Name returns the names of all chained cleaners.
func (c *ChainCleaner) Name() string {
	names := make([]string, len(c.cleaners))
	for i, cleaner := range c.cleaners {
		names[i] = cleaner.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
