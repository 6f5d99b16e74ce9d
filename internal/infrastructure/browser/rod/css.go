package rod

import (
	"strings"

	"autofill-agent/internal/domain/entity"
)

// cssFor renders a selector as a CSS selector list. Alternative tags of the
// selector and of its ancestors expand into a cross product.
func cssFor(sel entity.Selector) string {
	return strings.Join(cssAlternatives(sel), ", ")
}

func cssAlternatives(sel entity.Selector) []string {
	var attrs strings.Builder
	for _, a := range sel.Attrs {
		attrs.WriteString(cssAttr(a))
	}

	tags := sel.Tags
	if len(tags) == 0 {
		tags = []string{""}
	}
	own := make([]string, 0, len(tags))
	for _, t := range tags {
		compound := strings.ToLower(t) + attrs.String()
		if compound == "" {
			compound = "*"
		}
		own = append(own, compound)
	}

	if sel.Within == nil {
		return own
	}
	var out []string
	for _, parent := range cssAlternatives(*sel.Within) {
		for _, child := range own {
			out = append(out, parent+" "+child)
		}
	}
	return out
}

func cssAttr(a entity.AttrMatch) string {
	name := strings.ToLower(a.Name)
	val := cssString(a.Value)
	switch a.Op {
	case entity.OpEquals:
		return "[" + name + "=" + val + "]"
	case entity.OpContains:
		return "[" + name + "*=" + val + "]"
	case entity.OpPrefix:
		return "[" + name + "^=" + val + "]"
	case entity.OpWord:
		return "[" + name + "~=" + val + "]"
	default:
		return "[" + name + "]"
	}
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}
