package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// ImageCleaner removes images from HTML, together with links whose only
// content was an image, so no empty "[](url)" is left behind.
type ImageCleaner struct{}

// NewImages creates an image removing cleaner.
func NewImages() *ImageCleaner {
	return &ImageCleaner{}
}

// Clean removes img, picture and svg elements. Unparseable input is
// returned unchanged; the converter still drops img and picture.
func (c *ImageCleaner) Clean(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		logger.Warn("HTML parse failed, skipping image removal", "error", err)
		return content, nil
	}

	images := doc.Find("img, picture, svg")
	removed := images.Length()
	images.Remove()

	emptied := doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == "" && s.Children().Length() == 0
	})
	links := emptied.Length()
	emptied.Remove()

	logger.Debug("images removed", "images", removed, "empty_links", links)

	out, err := doc.Html()
	if err != nil {
		logger.Warn("HTML render failed, skipping image removal", "error", err)
		return content, nil
	}
	return out, nil
}

// Name returns the cleaner type.
func (c *ImageCleaner) Name() string {
	return "images"
}
