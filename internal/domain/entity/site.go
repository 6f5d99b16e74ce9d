package entity

// SiteProfile describes how a family of application sites marks up its forms.
type SiteProfile struct {
	Name string
	// HostFragments are matched as substrings of the page hostname.
	HostFragments []string
	// StructuralAttr is the attribute carrying stable semantic identifiers.
	StructuralAttr string
	// DetectByAttr enables detection through the presence of StructuralAttr
	// anywhere on the page.
	DetectByAttr bool
	// Identifiers lists known structural identifier fragments per tag.
	Identifiers map[FieldTag][]string
	// Priority overrides the table's tag order when non-empty.
	Priority []FieldTag
	// AsyncForm marks sites that build their form after load.
	AsyncForm bool
}

// Generic reports whether the profile carries no site-specific identifiers.
func (s SiteProfile) Generic() bool {
	return len(s.Identifiers) == 0 || s.StructuralAttr == ""
}

func (s SiteProfile) DescribeOptions() DescribeOptions {
	opts := DefaultDescribeOptions()
	if s.StructuralAttr != "" {
		opts.StructuralAttr = s.StructuralAttr
	}
	return opts
}
