package entity

type MatchOp int

const (
	OpExists MatchOp = iota
	OpEquals
	OpContains
	OpPrefix
	// OpWord matches one whitespace separated token, like CSS [class~=v].
	OpWord
)

type AttrMatch struct {
	Name  string
	Op    MatchOp
	Value string
}

// Selector is an engine-neutral structural query. Page models translate it to
// whatever their engine understands (CSS for a live browser, XPath for a parsed
// document).
type Selector struct {
	// Tags are alternatives; empty means any element.
	Tags  []string
	Attrs []AttrMatch
	// Within restricts matches to descendants of elements matching it.
	Within *Selector
}

func Tags(tags ...string) Selector {
	return Selector{Tags: tags}
}

func AttrEquals(name, value string) Selector {
	return Selector{Attrs: []AttrMatch{{Name: name, Op: OpEquals, Value: value}}}
}

func AttrContains(name, value string) Selector {
	return Selector{Attrs: []AttrMatch{{Name: name, Op: OpContains, Value: value}}}
}

func HasAttr(name string) Selector {
	return Selector{Attrs: []AttrMatch{{Name: name, Op: OpExists}}}
}

func ClassName(class string) Selector {
	return Selector{Attrs: []AttrMatch{{Name: "class", Op: OpWord, Value: class}}}
}

// With returns a copy of s carrying an additional attribute constraint.
func (s Selector) With(name string, op MatchOp, value string) Selector {
	attrs := make([]AttrMatch, 0, len(s.Attrs)+1)
	attrs = append(attrs, s.Attrs...)
	s.Attrs = append(attrs, AttrMatch{Name: name, Op: op, Value: value})
	return s
}

// In returns a copy of s restricted to descendants of parent.
func (s Selector) In(parent Selector) Selector {
	p := parent
	s.Within = &p
	return s
}

// OnTags returns a copy of s restricted to the given tag names.
func (s Selector) OnTags(tags ...string) Selector {
	s.Tags = tags
	return s
}
