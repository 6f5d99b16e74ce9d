package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-rod/rod"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
)

var (
	_ output.PageModel         = (*PageModel)(nil)
	_ output.TextField         = (*Element)(nil)
	_ output.SingleChoiceField = (*Element)(nil)
	_ output.CustomChoiceField = (*Element)(nil)
)

// PageModel drives a live page through the DevTools protocol. All element
// work happens in page scripts so the page's own listeners observe it.
type PageModel struct {
	page *rod.Page
}

func NewPageModel(page *rod.Page) *PageModel {
	return &PageModel{page: page}
}

func (p *PageModel) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *PageModel) Query(ctx context.Context, sel entity.Selector) ([]output.Element, error) {
	css := cssFor(sel)
	els, err := p.page.Context(ctx).Elements(css)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", css, err)
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		wrapped, err := newElement(el)
		if err != nil {
			continue
		}
		out = append(out, wrapped)
	}
	return out, nil
}

func (p *PageModel) HasAttr(ctx context.Context, attr string) (bool, error) {
	els, err := p.page.Context(ctx).Elements(cssFor(entity.HasAttr(attr)))
	if err != nil {
		return false, fmt.Errorf("probe %s: %w", attr, err)
	}
	return len(els) > 0, nil
}

func (p *PageModel) ClickNeutral(ctx context.Context) error {
	if _, err := p.page.Context(ctx).Eval(neutralClickJS); err != nil {
		return fmt.Errorf("neutral click: %w", err)
	}
	return nil
}

// Element wraps a remote node. Its Ref is the DevTools backend node id, which
// stays the same across queries for the node's lifetime.
type Element struct {
	el  *rod.Element
	ref string
}

func newElement(el *rod.Element) (*Element, error) {
	node, err := el.Describe(0, false)
	if err != nil {
		return nil, fmt.Errorf("describe node: %w", err)
	}
	return &Element{el: el, ref: "b" + strconv.Itoa(int(node.BackendNodeID))}, nil
}

func (e *Element) Ref() string {
	return e.ref
}

func (e *Element) Describe(ctx context.Context, opts entity.DescribeOptions) (*entity.ElementInfo, error) {
	raw, err := e.evalString(ctx, describeJS, opts.StructuralAttr, opts.Depth)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", e.ref, err)
	}
	var info entity.ElementInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("decode description of %s: %w", e.ref, err)
	}
	return &info, nil
}

func (e *Element) Dispatch(ctx context.Context, ev entity.Event) error {
	if _, err := e.el.Context(ctx).Eval(dispatchJS, string(ev.Type), ev.Data, ev.Key); err != nil {
		return fmt.Errorf("dispatch %s on %s: %w", ev.Type, e.ref, err)
	}
	return nil
}

func (e *Element) Pointer(ctx context.Context, seq []entity.EventType) error {
	types := make([]string, len(seq))
	for i, t := range seq {
		types[i] = string(t)
	}
	if _, err := e.el.Context(ctx).Eval(pointerJS, types); err != nil {
		return fmt.Errorf("pointer sequence on %s: %w", e.ref, err)
	}
	return nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	v, err := e.evalString(ctx, valueJS)
	if err != nil {
		return "", fmt.Errorf("read value of %s: %w", e.ref, err)
	}
	return v, nil
}

func (e *Element) SetNativeValue(ctx context.Context, value string) error {
	if _, err := e.el.Context(ctx).Eval(setNativeValueJS, value); err != nil {
		return fmt.Errorf("set value of %s: %w", e.ref, err)
	}
	return nil
}

func (e *Element) Focus(ctx context.Context) error {
	return e.Dispatch(ctx, entity.Event{Type: entity.EventFocus})
}

func (e *Element) Options(ctx context.Context) ([]entity.Option, error) {
	raw, err := e.evalString(ctx, optionsJS)
	if err != nil {
		return nil, fmt.Errorf("list options of %s: %w", e.ref, err)
	}
	var opts []entity.Option
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil, fmt.Errorf("decode options of %s: %w", e.ref, err)
	}
	return opts, nil
}

func (e *Element) SelectIndex(ctx context.Context, index int) error {
	res, err := e.el.Context(ctx).Eval(selectIndexJS, index)
	if err != nil {
		return fmt.Errorf("select option %d of %s: %w", index, e.ref, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("select option %d of %s: index not applied: %w", index, e.ref, entity.ErrNotChoiceField)
	}
	return nil
}

func (e *Element) evalString(ctx context.Context, js string, args ...interface{}) (string, error) {
	res, err := e.el.Context(ctx).Eval(js, args...)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
