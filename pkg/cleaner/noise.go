package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/fetchmd/internal/logger"
)

// Element is the minimal tree view the noise heuristic needs, independent of
// the HTML parser.
type Element interface {
	// TagName returns the lower-case tag name.
	TagName() string

	// ClassAttr returns the raw class attribute and whether it is present.
	ClassAttr() (string, bool)

	// Children returns the element children in document order.
	Children() []Element

	// Remove detaches the element and its subtree from its parent.
	Remove()
}

// Tags removed outright, subtree and text included.
var noiseTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
}

// Tags removed only when their class names match a chrome keyword.
var chromeTags = map[string]bool{
	"nav":    true,
	"footer": true,
	"aside":  true,
}

// Substrings matched against the joined, lower-cased class list. Note "ad"
// also matches "header" and "shadow".
var chromeKeywords = []string{"nav", "menu", "sidebar", "footer", "ad", "advertisement"}

// IsChrome reports whether an element with the given tag and class
// attribute is treated as navigation, sidebar or ad chrome. Elements without
// classes never match.
func IsChrome(tag, class string) bool {
	if !chromeTags[strings.ToLower(tag)] {
		return false
	}
	classes := strings.ToLower(strings.Join(strings.Fields(class), " "))
	if classes == "" {
		return false
	}
	for _, keyword := range chromeKeywords {
		if strings.Contains(classes, keyword) {
			return true
		}
	}
	return false
}

// StripNoise removes script, style and noscript subtrees plus chrome
// elements (see IsChrome) below root. It returns removal counts by tag.
func StripNoise(root Element) map[string]int {
	removed := make(map[string]int)

	var walk func(el Element)
	walk = func(el Element) {
		for _, child := range el.Children() {
			tag := child.TagName()
			if noiseTags[tag] {
				child.Remove()
				removed[tag]++
				continue
			}
			if class, ok := child.ClassAttr(); ok && IsChrome(tag, class) {
				child.Remove()
				removed[tag]++
				continue
			}
			walk(child)
		}
	}
	walk(root)

	return removed
}

// nodeElement adapts an x/net/html node to Element.
type nodeElement struct {
	node *html.Node
}

// NodeElement wraps a parsed HTML node, typically the document root.
func NodeElement(n *html.Node) Element {
	return nodeElement{node: n}
}

func (e nodeElement) TagName() string {
	if e.node.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(e.node.Data)
}

func (e nodeElement) ClassAttr() (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Namespace == "" && attr.Key == "class" {
			return attr.Val, true
		}
	}
	return "", false
}

func (e nodeElement) Children() []Element {
	var children []Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, nodeElement{node: c})
		}
	}
	return children
}

func (e nodeElement) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// NoiseCleaner parses HTML with goquery, applies StripNoise and serializes
// the pruned document back to HTML.
type NoiseCleaner struct{}

// NewNoise creates a noise stripping cleaner.
func NewNoise() *NoiseCleaner {
	return &NoiseCleaner{}
}

// Clean removes noise elements. Unparseable input is returned unchanged.
func (c *NoiseCleaner) Clean(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		logger.Warn("HTML parse failed, skipping noise removal", "error", err)
		return content, nil
	}

	removed := StripNoise(NodeElement(doc.Nodes[0]))
	logger.Debug("noise elements removed", "removed", removed)

	out, err := doc.Html()
	if err != nil {
		logger.Warn("HTML render failed, skipping noise removal", "error", err)
		return content, nil
	}
	return out, nil
}

// Name returns the cleaner type.
func (c *NoiseCleaner) Name() string {
	return "noise"
}
