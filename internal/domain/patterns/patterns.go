// Package patterns holds the static recognition tables: generic field patterns,
// site adapters keyed by structural identifiers, option-list selectors for
// custom dropdowns, and the synonym tables used for fuzzy option matching.
//
// A Table is treated as immutable once built. Callers that need a variation
// (tests, YAML overrides) build a new one from Clone.
package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"autofill-agent/internal/domain/entity"
)

// Table is the full set of recognition data injected into the classifier and
// the dropdown resolver.
type Table struct {
	Generic    map[entity.FieldTag][]*regexp.Regexp
	Priority   []entity.FieldTag
	Exclusions []entity.FieldTag
	Sites      []entity.SiteProfile
	// OptionSelectors are tried in order when looking for the rendered option
	// list of a custom dropdown.
	OptionSelectors []entity.Selector
	Synonyms        Synonyms
}

// DefaultPriority is the order in which generic patterns are tried. More
// specific tags come before the tags whose patterns would also match them
// (device type before phone, first/last before full name, country before state).
var DefaultPriority = []entity.FieldTag{
	entity.FieldPhoneExtension,
	entity.FieldPhoneDeviceType,
	entity.FieldFirstName,
	entity.FieldLastName,
	entity.FieldFullName,
	entity.FieldEmail,
	entity.FieldPhone,
	entity.FieldLinkedIn,
	entity.FieldGitHub,
	entity.FieldPortfolio,
	entity.FieldPostalCode,
	entity.FieldAddressLine,
	entity.FieldCity,
	entity.FieldCountry,
	entity.FieldState,
}

var genericSources = map[entity.FieldTag][]string{
	entity.FieldPhoneExtension: {
		`\bext(ension)?\b`,
		`tel-extension`,
		`phone[\s_-]*ext`,
	},
	entity.FieldPhoneDeviceType: {
		`device[\s_-]*type`,
		`phone[\s_-]*type`,
		`phone[\s_-]*device`,
	},
	entity.FieldFirstName: {
		`first[\s_-]*name`,
		`given[\s_-]*name`,
		`\bfname\b`,
		`^first$`,
	},
	entity.FieldLastName: {
		`last[\s_-]*name`,
		`family[\s_-]*name`,
		`surname`,
		`\blname\b`,
		`^last$`,
	},
	entity.FieldFullName: {
		`full[\s_-]*name`,
		`legal[\s_-]*name`,
		`your[\s_-]*name`,
		`candidate[\s_-]*name`,
		`^name\s*\*?$`,
	},
	entity.FieldEmail: {
		`e[\s_-]?mail`,
	},
	entity.FieldPhone: {
		`phone`,
		`mobile`,
		`\btel\b`,
		`telephone`,
		`\bcell\b`,
	},
	entity.FieldLinkedIn: {
		`linked[\s_-]*in`,
	},
	entity.FieldGitHub: {
		`git[\s_-]*hub`,
	},
	entity.FieldPortfolio: {
		`portfolio`,
		`website`,
		`personal[\s_-]*(site|page)`,
		`home[\s_-]*page`,
		`^url$`,
	},
	entity.FieldPostalCode: {
		`postal`,
		`\bzip\b`,
		`zip[\s_-]*code`,
		`post[\s_-]*code`,
	},
	entity.FieldAddressLine: {
		`address[\s_-]*line[\s_-]*1`,
		`street`,
		`address-line1`,
		`^address\s*\*?$`,
		`addressline1`,
	},
	entity.FieldCity: {
		`\bcity\b`,
		`\btown\b`,
		`locality`,
		`address-level2`,
	},
	entity.FieldCountry: {
		`country`,
	},
	entity.FieldState: {
		`\bstate\b`,
		`province`,
		`\bregion\b`,
		`address-level1`,
	},
}

// Default returns the built-in table.
func Default() *Table {
	generic := make(map[entity.FieldTag][]*regexp.Regexp, len(genericSources))
	for tag, sources := range genericSources {
		generic[tag] = mustCompileAll(sources)
	}

	return &Table{
		Generic:         generic,
		Priority:        append([]entity.FieldTag(nil), DefaultPriority...),
		Exclusions:      []entity.FieldTag{entity.FieldPhoneExtension},
		Sites:           defaultSites(),
		OptionSelectors: defaultOptionSelectors(),
		Synonyms:        DefaultSynonyms(),
	}
}

// Compile turns a pattern source into the case-insensitive, multi-line form the
// classifier expects.
func Compile(source string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?im)` + source)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", source, err)
	}
	return re, nil
}

func mustCompileAll(sources []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(sources))
	for _, s := range sources {
		re, err := Compile(s)
		if err != nil {
			panic(err)
		}
		out = append(out, re)
	}
	return out
}

// Clone returns a deep copy whose maps and slices can be modified freely.
func (t *Table) Clone() *Table {
	c := &Table{
		Generic:         make(map[entity.FieldTag][]*regexp.Regexp, len(t.Generic)),
		Priority:        append([]entity.FieldTag(nil), t.Priority...),
		Exclusions:      append([]entity.FieldTag(nil), t.Exclusions...),
		OptionSelectors: append([]entity.Selector(nil), t.OptionSelectors...),
		Synonyms:        t.Synonyms.Clone(),
	}
	for tag, res := range t.Generic {
		c.Generic[tag] = append([]*regexp.Regexp(nil), res...)
	}
	for _, s := range t.Sites {
		c.Sites = append(c.Sites, cloneSite(s))
	}
	return c
}

// Match returns the first tag in priority order whose generic patterns match
// text. Exclusion tags are checked first regardless of their position in the
// priority list.
func (t *Table) Match(text string, priority []entity.FieldTag) (entity.FieldTag, bool) {
	if text == "" {
		return "", false
	}
	if len(priority) == 0 {
		priority = t.Priority
	}
	for _, tag := range t.Exclusions {
		if t.matches(tag, text) {
			return tag, true
		}
	}
	for _, tag := range priority {
		if t.matches(tag, text) {
			return tag, true
		}
	}
	return "", false
}

// Excluded returns the exclusion tag whose generic patterns match text.
func (t *Table) Excluded(text string) (entity.FieldTag, bool) {
	if text == "" {
		return "", false
	}
	for _, tag := range t.Exclusions {
		if t.matches(tag, text) {
			return tag, true
		}
	}
	return "", false
}

func (t *Table) matches(tag entity.FieldTag, text string) bool {
	for _, re := range t.Generic[tag] {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectSite picks the site profile for a page. hasAttr reports whether an
// attribute is present anywhere on the page; it is only consulted for
// profiles that allow attribute detection. The generic profile is returned
// when nothing matches.
func (t *Table) DetectSite(host string, hasAttr func(attr string) bool) entity.SiteProfile {
	host = strings.ToLower(host)
	for _, site := range t.Sites {
		for _, frag := range site.HostFragments {
			if frag != "" && strings.Contains(host, strings.ToLower(frag)) {
				return site
			}
		}
	}
	if hasAttr != nil {
		for _, site := range t.Sites {
			if site.DetectByAttr && site.StructuralAttr != "" && hasAttr(site.StructuralAttr) {
				return site
			}
		}
	}
	return GenericSite()
}

// Site returns the profile registered under name.
func (t *Table) Site(name string) (entity.SiteProfile, bool) {
	for _, s := range t.Sites {
		if s.Name == name {
			return s, true
		}
	}
	return entity.SiteProfile{}, false
}

func GenericSite() entity.SiteProfile {
	return entity.SiteProfile{Name: "generic"}
}

func defaultOptionSelectors() []entity.Selector {
	return []entity.Selector{
		entity.AttrEquals("data-automation-id", "promptOption"),
		entity.AttrEquals("role", "option").In(entity.AttrEquals("role", "listbox")),
		entity.AttrEquals("role", "option"),
		entity.ClassName("select__option"),
		entity.AttrContains("class", "-option").In(entity.AttrContains("class", "-menu")),
		entity.Tags("li").In(entity.Tags("ul").With("role", entity.OpEquals, "listbox")),
		entity.AttrContains("id", "-option-"),
	}
}
