package cleaner

import "strings"

// maxBlankLines is the longest run of blank lines kept between content.
const maxBlankLines = 2

// NormalizeBlankLines drops every blank line that would be the third (or
// later) in a row, then trims the document. Lines holding only whitespace
// count as blank but are otherwise kept as-is. Applying it twice yields the
// same result as applying it once.
func NormalizeBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	blankCount := 0

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			blankCount = 0
			result = append(result, line)
			continue
		}
		blankCount++
		if blankCount <= maxBlankLines {
			result = append(result, line)
		}
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}

// WhitespaceCleaner applies NormalizeBlankLines.
type WhitespaceCleaner struct{}

// NewWhitespace creates a whitespace normalizing cleaner.
func NewWhitespace() *WhitespaceCleaner {
	return &WhitespaceCleaner{}
}

// Clean normalizes blank-line runs. It never fails.
func (c *WhitespaceCleaner) Clean(markdown string) (string, error) {
	return NormalizeBlankLines(markdown), nil
}

// Name returns the cleaner type.
func (c *WhitespaceCleaner) Name() string {
	return "whitespace"
}
