package htmldom

import (
	"fmt"
	"strings"

	"autofill-agent/internal/domain/entity"
)

// xpathFor renders a selector as an absolute XPath expression.
func xpathFor(sel entity.Selector) string {
	var sb strings.Builder
	if sel.Within != nil {
		sb.WriteString(xpathFor(*sel.Within))
	}
	sb.WriteString("//")
	sb.WriteString(tagStep(sel.Tags))
	for _, a := range sel.Attrs {
		sb.WriteString(predicate(a))
	}
	return sb.String()
}

func tagStep(tags []string) string {
	switch len(tags) {
	case 0:
		return "*"
	case 1:
		return strings.ToLower(tags[0])
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = "self::" + strings.ToLower(t)
	}
	return "*[" + strings.Join(parts, " or ") + "]"
}

func predicate(a entity.AttrMatch) string {
	attr := "@" + strings.ToLower(a.Name)
	lit := literal(a.Value)
	switch a.Op {
	case entity.OpEquals:
		return fmt.Sprintf("[%s=%s]", attr, lit)
	case entity.OpContains:
		return fmt.Sprintf("[contains(%s,%s)]", attr, lit)
	case entity.OpPrefix:
		return fmt.Sprintf("[starts-with(%s,%s)]", attr, lit)
	case entity.OpWord:
		return fmt.Sprintf("[contains(concat(' ',normalize-space(%s),' '),%s)]", attr, literal(" "+a.Value+" "))
	default:
		return "[" + attr + "]"
	}
}

// literal quotes s as an XPath 1.0 string literal.
func literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		quoted = append(quoted, "'"+p+"'")
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}
