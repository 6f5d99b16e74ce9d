package htmldom

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
)

var (
	_ output.TextField         = (*Element)(nil)
	_ output.SingleChoiceField = (*Element)(nil)
	_ output.CustomChoiceField = (*Element)(nil)
)

// Element is a node of a Page. One type serves every capability; methods that
// do not apply to the node's kind return an error.
type Element struct {
	page *Page
	node *html.Node
	ref  string
}

func (e *Element) Ref() string {
	return e.ref
}

func (e *Element) Describe(ctx context.Context, opts entity.DescribeOptions) (*entity.ElementInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	n := e.node
	kind := kindOf(n)
	info := &entity.ElementInfo{
		Kind:         kind,
		Tag:          n.Data,
		Type:         strings.ToLower(attrVal(n, "type")),
		Name:         attrVal(n, "name"),
		ID:           attrVal(n, "id"),
		Placeholder:  attrVal(n, "placeholder"),
		AriaLabel:    attrVal(n, "aria-label"),
		TestID:       attrVal(n, "data-testid"),
		Autocomplete: attrVal(n, "autocomplete"),
		Role:         attrVal(n, "role"),
		Value:        e.valueLocked(),
		Label:        labelText(n),
		Ancestors:    ancestors(n, opts.StructuralAttr, opts.Depth),
		Visible:      visible(n),
		Disabled:     disabled(n),
		ReadOnly:     readOnly(n),
	}
	if opts.StructuralAttr != "" {
		info.StructuralID = attrVal(n, opts.StructuralAttr)
	}
	if kind == entity.KindCustomWidget || kind == entity.KindOther {
		info.Text = innerText(n)
	}
	if kind == entity.KindNativeSelect {
		info.Chosen = explicitSelection(n)
	}
	info.HasSize = info.Visible && !styleCollapses(n)
	return info, nil
}

func (e *Element) Dispatch(ctx context.Context, ev entity.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.page.record(e.ref, ev)
	return nil
}

func (e *Element) Pointer(ctx context.Context, seq []entity.EventType) error {
	for _, t := range seq {
		if err := e.Dispatch(ctx, entity.Event{Type: t}); err != nil {
			return err
		}
	}
	return nil
}

func (e *Element) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.valueLocked(), nil
}

func (e *Element) SetNativeValue(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	if filter := e.page.hooks.FilterValue; filter != nil {
		value = filter(e.ref, value, e.page.last[e.ref])
	}
	switch kindOf(e.node) {
	case entity.KindTextInput:
		setAttr(e.node, "value", value)
	case entity.KindTextArea, entity.KindContentEditable:
		setText(e.node, value)
	default:
		return fmt.Errorf("set value on <%s>: %w", e.node.Data, entity.ErrNotTextField)
	}
	return nil
}

func (e *Element) Focus(ctx context.Context) error {
	return e.Dispatch(ctx, entity.Event{Type: entity.EventFocus})
}

func (e *Element) Options(ctx context.Context) ([]entity.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	if e.node.Data != "select" {
		return nil, fmt.Errorf("options of <%s>: %w", e.node.Data, entity.ErrNotChoiceField)
	}
	return options(e.node), nil
}

func (e *Element) SelectIndex(ctx context.Context, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.page.mu.Lock()
	defer e.page.mu.Unlock()

	if e.node.Data != "select" {
		return fmt.Errorf("select on <%s>: %w", e.node.Data, entity.ErrNotChoiceField)
	}
	opts := optionNodes(e.node)
	if index < 0 || index >= len(opts) {
		return fmt.Errorf("option index %d out of range (%d options)", index, len(opts))
	}
	for i, o := range opts {
		if i == index {
			setAttr(o, "selected", "")
		} else {
			removeAttr(o, "selected")
		}
	}
	return nil
}

func (e *Element) valueLocked() string {
	n := e.node
	switch kindOf(n) {
	case entity.KindTextInput:
		return attrVal(n, "value")
	case entity.KindTextArea:
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	case entity.KindNativeSelect:
		idx := selectedIndex(n)
		if idx < 0 {
			return ""
		}
		return options(n)[idx].Value
	case entity.KindContentEditable, entity.KindCustomWidget:
		return innerText(n)
	}
	return ""
}
