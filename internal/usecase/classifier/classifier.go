// Package classifier decides which elements of a page correspond to which
// profile attributes.
//
// Classification runs in up to three passes. The site pass resolves the
// structural identifiers of a recognized applicant-tracking platform. The
// generic pass tests composite element text against the pattern table for
// every remaining empty, interactable element. The optional hint pass asks a
// FieldHinter about whatever is still unclassified.
package classifier

import (
	"context"
	"fmt"
	"net/url"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/domain/patterns"
)

type Source string

const (
	SourceSite    Source = "site"
	SourceGeneric Source = "generic"
	SourceHint    Source = "hint"
)

// Classified is an element paired with its tag. Capability is fixed here and
// never re-derived downstream.
type Classified struct {
	Element    output.Element
	Info       *entity.ElementInfo
	Tag        entity.FieldTag
	Capability entity.Capability
	Source     Source
}

func (c Classified) Ref() string {
	return c.Element.Ref()
}

type Option func(*Classifier)

// WithHinter enables the hint pass.
func WithHinter(h output.FieldHinter) Option {
	return func(c *Classifier) { c.hinter = h }
}

type Classifier struct {
	table  *patterns.Table
	hinter output.FieldHinter
	logger output.LoggerPort
}

func New(table *patterns.Table, logger output.LoggerPort, opts ...Option) *Classifier {
	c := &Classifier{table: table, logger: logger}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DetectSite matches the page hostname against the site profiles, then falls
// back to looking for a profile's structural attribute on the page.
func (c *Classifier) DetectSite(ctx context.Context, page output.PageModel) entity.SiteProfile {
	host := ""
	if u, err := url.Parse(page.URL()); err == nil {
		host = u.Hostname()
	}
	return c.table.DetectSite(host, func(attr string) bool {
		ok, err := page.HasAttr(ctx, attr)
		if err != nil {
			c.logger.Debug("Attribute probe failed", "attr", attr, "error", err)
			return false
		}
		return ok
	})
}

// Classify returns the tagged elements of page. Elements matched by an
// exclusion tag are claimed so no other pass tags them, and are left out of
// the result. An empty result is not an error.
func (c *Classifier) Classify(ctx context.Context, page output.PageModel, site entity.SiteProfile) ([]Classified, error) {
	claimed := make(map[string]bool)
	opts := site.DescribeOptions()
	priority := site.Priority
	if len(priority) == 0 {
		priority = c.table.Priority
	}

	var result []Classified

	if !site.Generic() {
		matches, err := c.sitePass(ctx, page, site, priority, opts, claimed)
		if err != nil {
			return nil, err
		}
		result = append(result, matches...)
	}

	matches, leftovers, err := c.genericPass(ctx, page, site, priority, opts, claimed)
	if err != nil {
		return nil, err
	}
	result = append(result, matches...)

	if c.hinter != nil && len(leftovers) > 0 {
		result = append(result, c.hintPass(ctx, leftovers, claimed)...)
	}

	c.logger.Debug("Classification complete",
		"site", site.Name,
		"classified", len(result),
		"claimed", len(claimed),
	)
	return result, nil
}

func (c *Classifier) sitePass(
	ctx context.Context,
	page output.PageModel,
	site entity.SiteProfile,
	priority []entity.FieldTag,
	opts entity.DescribeOptions,
	claimed map[string]bool,
) ([]Classified, error) {
	var out []Classified

	for _, tag := range siteOrder(site, priority) {
		for _, id := range site.Identifiers[tag] {
			hit, err := c.resolveIdentifier(ctx, page, tag, site.StructuralAttr, id, opts, claimed)
			if err != nil {
				return nil, fmt.Errorf("resolve %s identifier %q: %w", tag, id, err)
			}
			if hit == nil {
				continue
			}
			claimed[hit.Element.Ref()] = true
			if tag.IsExclusion() {
				c.logger.Debug("Excluded element", "tag", tag, "ref", hit.Element.Ref())
			} else {
				hit.Tag = tag
				hit.Source = SourceSite
				out = append(out, *hit)
			}
			break
		}
	}
	return out, nil
}

// siteOrder puts exclusion tags first so they claim their elements before any
// other tag can, then follows the priority list, then any tag the site knows
// that the list omits.
func siteOrder(site entity.SiteProfile, priority []entity.FieldTag) []entity.FieldTag {
	seen := make(map[entity.FieldTag]bool)
	var order []entity.FieldTag
	add := func(t entity.FieldTag) {
		if seen[t] {
			return
		}
		if _, ok := site.Identifiers[t]; !ok {
			return
		}
		seen[t] = true
		order = append(order, t)
	}
	for _, t := range priority {
		if t.IsExclusion() {
			add(t)
		}
	}
	for _, t := range priority {
		add(t)
	}
	for _, t := range entity.AllFieldTags {
		add(t)
	}
	return order
}

// resolveIdentifier tries an exact attribute match, then a substring match.
// Within each, the decorated element itself wins over input-like elements
// nested beneath it. A substring hit whose text matches an exclusion pattern
// is passed over for every tag but that exclusion.
func (c *Classifier) resolveIdentifier(
	ctx context.Context,
	page output.PageModel,
	tag entity.FieldTag,
	attr, id string,
	opts entity.DescribeOptions,
	claimed map[string]bool,
) (*Classified, error) {
	for i, decor := range []entity.Selector{
		entity.AttrEquals(attr, id),
		entity.AttrContains(attr, id),
	} {
		substring := i == 1
		for _, sel := range []entity.Selector{decor, (entity.Selector{}).In(decor)} {
			els, err := page.Query(ctx, sel)
			if err != nil {
				return nil, err
			}
			for _, el := range els {
				if claimed[el.Ref()] {
					continue
				}
				info, ok := c.fillable(ctx, el, opts)
				if !ok {
					continue
				}
				if substring && !tag.IsExclusion() {
					if ex, hit := c.table.Excluded(info.Searchable()); hit {
						c.logger.Debug("Skipped excluded identifier match", "tag", tag, "exclusion", ex, "ref", el.Ref())
						continue
					}
				}
				return &Classified{Element: el, Info: info, Capability: info.Kind.Capability()}, nil
			}
		}
	}
	return nil, nil
}

func candidateSelectors(site entity.SiteProfile) []entity.Selector {
	sels := []entity.Selector{
		entity.Tags("input", "textarea", "select"),
		entity.HasAttr("contenteditable"),
		entity.AttrEquals("role", "textbox"),
		entity.AttrEquals("role", "combobox"),
		entity.AttrEquals("aria-haspopup", "listbox"),
	}
	if site.StructuralAttr != "" {
		decor := entity.HasAttr(site.StructuralAttr)
		sels = append(sels, decor, (entity.Selector{}).In(decor))
	}
	return sels
}

type leftover struct {
	el   output.Element
	info *entity.ElementInfo
}

func (c *Classifier) genericPass(
	ctx context.Context,
	page output.PageModel,
	site entity.SiteProfile,
	priority []entity.FieldTag,
	opts entity.DescribeOptions,
	claimed map[string]bool,
) ([]Classified, []leftover, error) {
	seen := make(map[string]bool)
	var out []Classified
	var rest []leftover

	for _, sel := range candidateSelectors(site) {
		els, err := page.Query(ctx, sel)
		if err != nil {
			return nil, nil, fmt.Errorf("collect candidates: %w", err)
		}
		for _, el := range els {
			ref := el.Ref()
			if seen[ref] || claimed[ref] {
				continue
			}
			seen[ref] = true

			info, ok := c.fillable(ctx, el, opts)
			if !ok || info.HasValue() {
				continue
			}

			tag, matched := c.table.Match(info.Searchable(), priority)
			if !matched {
				rest = append(rest, leftover{el: el, info: info})
				continue
			}
			claimed[ref] = true
			if tag.IsExclusion() {
				c.logger.Debug("Excluded element", "tag", tag, "ref", ref)
				continue
			}
			out = append(out, Classified{
				Element:    el,
				Info:       info,
				Tag:        tag,
				Capability: info.Kind.Capability(),
				Source:     SourceGeneric,
			})
		}
	}
	return out, rest, nil
}

func (c *Classifier) hintPass(ctx context.Context, rest []leftover, claimed map[string]bool) []Classified {
	candidates := make([]output.FieldCandidate, 0, len(rest))
	byRef := make(map[string]leftover, len(rest))
	for _, l := range rest {
		candidates = append(candidates, output.FieldCandidate{Ref: l.el.Ref(), Info: *l.info})
		byRef[l.el.Ref()] = l
	}

	hints, err := c.hinter.Hint(ctx, candidates)
	if err != nil {
		c.logger.Warn("Field hinter failed", "error", err, "candidates", len(candidates))
		return nil
	}

	var out []Classified
	for _, cand := range candidates {
		tag, ok := hints[cand.Ref]
		if !ok || tag == "" || tag.IsExclusion() || claimed[cand.Ref] {
			continue
		}
		l := byRef[cand.Ref]
		claimed[cand.Ref] = true
		out = append(out, Classified{
			Element:    l.el,
			Info:       l.info,
			Tag:        tag,
			Capability: l.info.Kind.Capability(),
			Source:     SourceHint,
		})
	}
	return out
}

// fillable describes el and reports whether it is an interactable element of
// a kind the fill stages can drive.
func (c *Classifier) fillable(ctx context.Context, el output.Element, opts entity.DescribeOptions) (*entity.ElementInfo, bool) {
	info, err := el.Describe(ctx, opts)
	if err != nil {
		c.logger.Debug("Describe failed", "ref", el.Ref(), "error", err)
		return nil, false
	}
	if info.Kind.Capability() == entity.CapabilityNone || !info.Interactable() {
		return nil, false
	}
	return info, true
}
