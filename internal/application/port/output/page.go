package output

import (
	"context"

	"autofill-agent/internal/domain/entity"
)

// PageModel is a queryable, mutable view over a rendered page. The autofill
// core depends on nothing below this interface.
type PageModel interface {
	URL() string
	Query(ctx context.Context, sel entity.Selector) ([]Element, error)
	// HasAttr reports whether any element on the page carries attr.
	HasAttr(ctx context.Context, attr string) (bool, error)
	// ClickNeutral clicks an empty area of the page, closing open popups and
	// triggering outside-click validation.
	ClickNeutral(ctx context.Context) error
}

// Element is an opaque handle into a PageModel. Ref is stable for the
// lifetime of the underlying node and is used as the element's identity.
type Element interface {
	Ref() string
	Describe(ctx context.Context, opts entity.DescribeOptions) (*entity.ElementInfo, error)
	Dispatch(ctx context.Context, ev entity.Event) error
	// Pointer dispatches a realistic sequence of pointer, mouse and focus events.
	Pointer(ctx context.Context, seq []entity.EventType) error
}

// TextField is an element whose value is free text.
type TextField interface {
	Element
	Value(ctx context.Context) (string, error)
	// SetNativeValue writes through the platform's own property setter so that
	// frameworks wrapping the element observe the change.
	SetNativeValue(ctx context.Context, value string) error
	Focus(ctx context.Context) error
}

// SingleChoiceField is a native selection list.
type SingleChoiceField interface {
	Element
	Options(ctx context.Context) ([]entity.Option, error)
	SelectIndex(ctx context.Context, index int) error
}

// CustomChoiceField is a click-to-open widget whose options are rendered
// elsewhere in the document.
type CustomChoiceField interface {
	Element
}
