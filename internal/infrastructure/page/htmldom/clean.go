package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
}

// DefaultCleanConfig drops everything that executes or only matters to the
// renderer. Inline style and data-*/aria-* attributes are kept.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "noscript", "style", "svg", "iframe", "link", "meta", "template",
	},
	AttrsToRemove: []string{
		"srcset", "sizes", "loading", "decoding", "fetchpriority", "integrity", "nonce",
	},
}

// Clean turns a live page snapshot into a static document that Parse can
// replay offline.
func Clean(rawHTML string, cfg *CleanConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	for c := doc.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if isOneOf(attr.Key, cfg.AttrsToRemove...) || isEventHandler(attr.Key) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func isEventHandler(key string) bool {
	return strings.HasPrefix(key, "on") && key != "open"
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
