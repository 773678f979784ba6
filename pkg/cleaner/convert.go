package cleaner

// NewConverter assembles the conversion pipeline for opts: noise stripping
// (when enabled), image removal (when images are excluded), HTML to
// Markdown, then blank-line normalization.
func NewConverter(opts Options) *ChainCleaner {
	var stages []Cleaner
	if opts.StripNoise {
		stages = append(stages, NewNoise())
	}
	if !opts.IncludeImages {
		stages = append(stages, NewImages())
	}
	stages = append(stages, NewMarkdown(opts), NewWhitespace())
	return NewChain(stages...)
}

// Convert runs the conversion pipeline once.
func Convert(html string, opts Options) (string, error) {
	return NewConverter(opts).Clean(html)
}
