// Package patternsfile loads pattern-table overrides from YAML.
//
//	priority: [phone_extension, first_name, last_name, email]
//	generic:
//	  github: ['git[\s_-]*hub[\s_-]*handle']
//	sites:
//	  - name: icims
//	    host_fragments: [icims.com]
//	    structural_attr: data-field
//	    identifiers:
//	      first_name: [firstName]
//	synonyms:
//	  states: {ON: Ontario}
//	  device_types:
//	    mobile: [Handy]
//
// Generic patterns are appended to the built-in ones. A site whose name matches
// a built-in site replaces it; other sites are appended. Synonym entries
// replace built-in entries under the same key.
package patternsfile

import (
	"fmt"
	"os"

	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/domain/patterns"

	"gopkg.in/yaml.v3"
)

type File struct {
	Priority   []string            `yaml:"priority"`
	Exclusions []string            `yaml:"exclusions"`
	Generic    map[string][]string `yaml:"generic"`
	Sites      []Site              `yaml:"sites"`
	Synonyms   Synonyms            `yaml:"synonyms"`
}

type Site struct {
	Name           string              `yaml:"name"`
	HostFragments  []string            `yaml:"host_fragments"`
	StructuralAttr string              `yaml:"structural_attr"`
	DetectByAttr   bool                `yaml:"detect_by_attr"`
	AsyncForm      bool                `yaml:"async_form"`
	Priority       []string            `yaml:"priority"`
	Identifiers    map[string][]string `yaml:"identifiers"`
}

type Synonyms struct {
	States      map[string]string   `yaml:"states"`
	DeviceTypes map[string][]string `yaml:"device_types"`
	Countries   map[string][]string `yaml:"countries"`
}

// LoadFile reads path and applies it on top of base.
func LoadFile(path string, base *patterns.Table) (*patterns.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patterns file: %w", err)
	}
	return Load(data, base)
}

// Load parses a YAML document and returns a new table; base is not modified.
func Load(data []byte, base *patterns.Table) (*patterns.Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse patterns file: %w", err)
	}
	return f.Apply(base)
}

func (f *File) Apply(base *patterns.Table) (*patterns.Table, error) {
	if base == nil {
		base = patterns.Default()
	}
	t := base.Clone()

	for name, sources := range f.Generic {
		tag, err := parseTag(name)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			re, err := patterns.Compile(src)
			if err != nil {
				return nil, err
			}
			t.Generic[tag] = append(t.Generic[tag], re)
		}
	}

	if len(f.Priority) > 0 {
		priority, err := parseTags(f.Priority)
		if err != nil {
			return nil, fmt.Errorf("priority: %w", err)
		}
		t.Priority = priority
	}

	if len(f.Exclusions) > 0 {
		exclusions, err := parseTags(f.Exclusions)
		if err != nil {
			return nil, fmt.Errorf("exclusions: %w", err)
		}
		t.Exclusions = exclusions
	}

	for _, s := range f.Sites {
		site, err := s.profile()
		if err != nil {
			return nil, err
		}
		t.Sites = upsertSite(t.Sites, site)
	}

	if !f.Synonyms.empty() {
		t.Synonyms = t.Synonyms.Merge(patterns.NewSynonyms(
			f.Synonyms.States, f.Synonyms.DeviceTypes, f.Synonyms.Countries,
		))
	}

	return t, nil
}

func (s Site) profile() (entity.SiteProfile, error) {
	if s.Name == "" {
		return entity.SiteProfile{}, fmt.Errorf("site without name")
	}
	if s.Name == patterns.GenericSite().Name {
		return entity.SiteProfile{}, fmt.Errorf("site name %q is reserved", s.Name)
	}

	p := entity.SiteProfile{
		Name:           s.Name,
		HostFragments:  append([]string(nil), s.HostFragments...),
		StructuralAttr: s.StructuralAttr,
		DetectByAttr:   s.DetectByAttr,
		AsyncForm:      s.AsyncForm,
	}

	if len(s.Priority) > 0 {
		priority, err := parseTags(s.Priority)
		if err != nil {
			return entity.SiteProfile{}, fmt.Errorf("site %s priority: %w", s.Name, err)
		}
		p.Priority = priority
	}

	if len(s.Identifiers) > 0 {
		p.Identifiers = make(map[entity.FieldTag][]string, len(s.Identifiers))
		for name, ids := range s.Identifiers {
			tag, err := parseTag(name)
			if err != nil {
				return entity.SiteProfile{}, fmt.Errorf("site %s: %w", s.Name, err)
			}
			p.Identifiers[tag] = append([]string(nil), ids...)
		}
	}

	return p, nil
}

func (s Synonyms) empty() bool {
	return len(s.States) == 0 && len(s.DeviceTypes) == 0 && len(s.Countries) == 0
}

func upsertSite(sites []entity.SiteProfile, site entity.SiteProfile) []entity.SiteProfile {
	for i := range sites {
		if sites[i].Name == site.Name {
			sites[i] = site
			return sites
		}
	}
	return append(sites, site)
}

func parseTag(name string) (entity.FieldTag, error) {
	tag, ok := entity.ParseFieldTag(name)
	if !ok {
		return "", fmt.Errorf("unknown field tag %q", name)
	}
	return tag, nil
}

func parseTags(names []string) ([]entity.FieldTag, error) {
	out := make([]entity.FieldTag, 0, len(names))
	for _, n := range names {
		tag, err := parseTag(n)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}
