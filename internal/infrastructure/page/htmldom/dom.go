package htmldom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"autofill-agent/internal/domain/entity"
)

var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"tel":      true,
	"url":      true,
	"search":   true,
	"number":   true,
	"password": true,
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attrVal(n *html.Node, key string) string {
	v, _ := attr(n, key)
	return v
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func setText(n *html.Node, s string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	if s != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

func innerText(n *html.Node) string {
	return strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
}

func kindOf(n *html.Node) entity.ElementKind {
	role := strings.ToLower(attrVal(n, "role"))
	switch n.Data {
	case "input":
		if textInputTypes[strings.ToLower(attrVal(n, "type"))] {
			return entity.KindTextInput
		}
		return entity.KindOther
	case "textarea":
		return entity.KindTextArea
	case "select":
		return entity.KindNativeSelect
	}
	if ce, ok := attr(n, "contenteditable"); ok && (ce == "" || strings.EqualFold(ce, "true")) {
		return entity.KindContentEditable
	}
	if role == "textbox" {
		return entity.KindContentEditable
	}
	if role == "combobox" || strings.EqualFold(attrVal(n, "aria-haspopup"), "listbox") {
		return entity.KindCustomWidget
	}
	return entity.KindOther
}

func styleHides(n *html.Node) bool {
	style := strings.ReplaceAll(strings.ToLower(attrVal(n, "style")), " ", "")
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func styleCollapses(n *html.Node) bool {
	style := strings.ReplaceAll(strings.ToLower(attrVal(n, "style")), " ", "")
	for _, decl := range strings.Split(style, ";") {
		if decl == "width:0" || decl == "height:0" || decl == "width:0px" || decl == "height:0px" {
			return true
		}
	}
	return false
}

func visible(n *html.Node) bool {
	if n.Data == "input" && strings.EqualFold(attrVal(n, "type"), "hidden") {
		return false
	}
	for c := n; c != nil && c.Type == html.ElementNode; c = c.Parent {
		if _, ok := attr(c, "hidden"); ok {
			return false
		}
		if styleHides(c) {
			return false
		}
	}
	return true
}

func disabled(n *html.Node) bool {
	if _, ok := attr(n, "disabled"); ok {
		return true
	}
	if strings.EqualFold(attrVal(n, "aria-disabled"), "true") {
		return true
	}
	for c := n.Parent; c != nil && c.Type == html.ElementNode; c = c.Parent {
		if c.Data == "fieldset" {
			if _, ok := attr(c, "disabled"); ok {
				return true
			}
		}
	}
	return false
}

func readOnly(n *html.Node) bool {
	if _, ok := attr(n, "readonly"); ok {
		return true
	}
	return strings.EqualFold(attrVal(n, "aria-readonly"), "true")
}

func root(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// labelText resolves <label for>, a wrapping <label>, then aria-labelledby.
func labelText(n *html.Node) string {
	doc := root(n)
	if id := attrVal(n, "id"); id != "" {
		if l := htmlquery.FindOne(doc, "//label[@for="+literal(id)+"]"); l != nil {
			return innerText(l)
		}
	}
	for c := n.Parent; c != nil && c.Type == html.ElementNode; c = c.Parent {
		if c.Data == "label" {
			return innerText(c)
		}
	}
	if ids := strings.Fields(attrVal(n, "aria-labelledby")); len(ids) > 0 {
		var parts []string
		for _, id := range ids {
			if l := htmlquery.FindOne(doc, "//*[@id="+literal(id)+"]"); l != nil {
				parts = append(parts, innerText(l))
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func ancestors(n *html.Node, structural string, depth int) []string {
	var out []string
	level := 0
	for c := n.Parent; c != nil && c.Type == html.ElementNode && level < depth; c = c.Parent {
		level++
		if structural != "" {
			if v := attrVal(c, structural); v != "" {
				out = append(out, v)
			}
		}
		if v := attrVal(c, "aria-label"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func optionNodes(sel *html.Node) []*html.Node {
	return htmlquery.Find(sel, ".//option")
}

func options(sel *html.Node) []entity.Option {
	var out []entity.Option
	for i, o := range optionNodes(sel) {
		value, ok := attr(o, "value")
		if !ok {
			value = innerText(o)
		}
		_, dis := attr(o, "disabled")
		if !dis && o.Parent != nil && o.Parent.Data == "optgroup" {
			_, dis = attr(o.Parent, "disabled")
		}
		out = append(out, entity.Option{Index: i, Value: value, Text: innerText(o), Disabled: dis})
	}
	return out
}

func selectedIndex(sel *html.Node) int {
	opts := optionNodes(sel)
	for i, o := range opts {
		if _, ok := attr(o, "selected"); ok {
			return i
		}
	}
	if len(opts) > 0 {
		return 0
	}
	return -1
}

func explicitSelection(sel *html.Node) bool {
	for _, o := range optionNodes(sel) {
		if _, ok := attr(o, "selected"); ok {
			return true
		}
	}
	return false
}
