// Package htmldom is an in-memory PageModel over a parsed HTML document. It
// has no layout engine: visibility is derived from hidden attributes and
// inline styles, and page scripts are emulated through Hooks.
package htmldom

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
)

var _ output.PageModel = (*Page)(nil)

// Hooks emulate the scripts of a live page.
type Hooks struct {
	// FilterValue rewrites a value written through SetNativeValue. last is the
	// type of the previous event dispatched on the element.
	FilterValue func(ref, value string, last entity.EventType) string
	// OnEvent runs after an event was recorded. It may mutate the page.
	OnEvent func(p *Page, ref string, ev entity.Event)
}

// Recorded is one dispatched event.
type Recorded struct {
	Ref   string
	Event entity.Event
}

type Option func(*Page)

func WithHooks(h Hooks) Option {
	return func(p *Page) { p.hooks = h }
}

type Page struct {
	mu            sync.Mutex
	url           string
	doc           *html.Node
	refs          map[*html.Node]string
	nodes         map[string]*html.Node
	last          map[string]entity.EventType
	events        []Recorded
	neutralClicks int
	hooks         Hooks
}

// Parse builds a page from an HTML document served from url.
func Parse(url, src string, opts ...Option) (*Page, error) {
	doc, err := htmlquery.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	p := &Page{
		url:   url,
		doc:   doc,
		refs:  make(map[*html.Node]string),
		nodes: make(map[string]*html.Node),
		last:  make(map[string]entity.EventType),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Query(ctx context.Context, sel entity.Selector) ([]output.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	expr := xpathFor(sel)

	p.mu.Lock()
	defer p.mu.Unlock()

	nodes, err := htmlquery.QueryAll(p.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", expr, err)
	}
	out := make([]output.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.wrapLocked(n))
	}
	return out, nil
}

func (p *Page) HasAttr(ctx context.Context, attr string) (bool, error) {
	els, err := p.Query(ctx, entity.HasAttr(attr))
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func (p *Page) ClickNeutral(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.neutralClicks++
	p.mu.Unlock()
	return nil
}

// XPath returns the elements matching a raw XPath expression.
func (p *Page) XPath(expr string) ([]*Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	nodes, err := htmlquery.QueryAll(p.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", expr, err)
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.wrapLocked(n))
	}
	return out, nil
}

// ByID returns the element with the given id attribute, or nil.
func (p *Page) ByID(id string) *Element {
	els, err := p.XPath("//*[@id=" + literal(id) + "]")
	if err != nil || len(els) == 0 {
		return nil
	}
	return els[0]
}

// AppendToBody parses fragment and appends it to the document body, the way
// a framework renders a popup at the end of the document.
func (p *Page) AppendToBody(fragment string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	body := htmlquery.FindOne(p.doc, "//body")
	if body == nil {
		return fmt.Errorf("document has no body")
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return nil
}

// Events returns a copy of the event log.
func (p *Page) Events() []Recorded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Recorded(nil), p.events...)
}

// EventTypes returns the types of the events dispatched on ref, in order.
func (p *Page) EventTypes(ref string) []entity.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []entity.EventType
	for _, r := range p.events {
		if r.Ref == ref {
			out = append(out, r.Event.Type)
		}
	}
	return out
}

func (p *Page) NeutralClicks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.neutralClicks
}

// HTML renders the current document.
func (p *Page) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var buf bytes.Buffer
	_ = html.Render(&buf, p.doc)
	return buf.String()
}

func (p *Page) wrapLocked(n *html.Node) *Element {
	ref, ok := p.refs[n]
	if !ok {
		ref = "n" + strconv.Itoa(len(p.refs)+1)
		p.refs[n] = ref
		p.nodes[ref] = n
	}
	return &Element{page: p, node: n, ref: ref}
}

// record appends ev to the log and runs the OnEvent hook outside the lock.
func (p *Page) record(ref string, ev entity.Event) {
	p.mu.Lock()
	p.events = append(p.events, Recorded{Ref: ref, Event: ev})
	p.last[ref] = ev.Type
	hook := p.hooks.OnEvent
	p.mu.Unlock()

	if hook != nil {
		hook(p, ref, ev)
	}
}
