// Package dropdown resolves single-choice widgets. Native selection lists are
// matched against their option list directly; custom widgets are opened with a
// realistic pointer sequence and their rendered options are polled for.
package dropdown

import (
	"context"
	"fmt"
	"time"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/domain/patterns"
	"autofill-agent/internal/usecase/timing"
)

type Config struct {
	// PollAttempts bounds how many times rendered options are looked for.
	PollAttempts int
	// PollDelay is the wait before the first poll; poll n waits n*PollDelay.
	PollDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollAttempts: 5,
		PollDelay:    150 * time.Millisecond,
	}
}

type Option func(*Resolver)

func WithSleep(s timing.SleepFunc) Option {
	return func(r *Resolver) { r.sleep = s }
}

type Resolver struct {
	cfg       Config
	selectors []entity.Selector
	synonyms  patterns.Synonyms
	sleep     timing.SleepFunc
	logger    output.LoggerPort
}

func New(cfg Config, table *patterns.Table, logger output.LoggerPort, opts ...Option) *Resolver {
	if cfg.PollAttempts < 1 {
		cfg.PollAttempts = 1
	}
	r := &Resolver{
		cfg:       cfg,
		selectors: table.OptionSelectors,
		synonyms:  table.Synonyms,
		sleep:     timing.Sleep,
		logger:    logger,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveAndSelect picks the option best matching value and selects it. The
// capability decides between the native and the custom widget path. Failures
// wrap entity.ErrDropdownNoMatch or entity.ErrDropdownRenderTimeout.
func (r *Resolver) ResolveAndSelect(
	ctx context.Context,
	page output.PageModel,
	el output.Element,
	capability entity.Capability,
	value string,
	kind entity.ChoiceKind,
) error {
	variations := r.synonyms.Variations(value, kind)
	if len(variations) == 0 {
		return fmt.Errorf("dropdown %s: empty value: %w", el.Ref(), entity.ErrDropdownNoMatch)
	}

	switch capability {
	case entity.CapabilitySingleChoice:
		field, ok := el.(output.SingleChoiceField)
		if !ok {
			return fmt.Errorf("dropdown %s: %w", el.Ref(), entity.ErrNotChoiceField)
		}
		return r.selectNative(ctx, field, variations)
	case entity.CapabilityCustomChoice:
		field, ok := el.(output.CustomChoiceField)
		if !ok {
			return fmt.Errorf("dropdown %s: %w", el.Ref(), entity.ErrNotChoiceField)
		}
		return r.selectCustom(ctx, page, field, variations)
	default:
		return fmt.Errorf("dropdown %s: capability %s: %w", el.Ref(), capability, entity.ErrNotChoiceField)
	}
}

func (r *Resolver) selectNative(ctx context.Context, field output.SingleChoiceField, variations []string) error {
	opts, err := field.Options(ctx)
	if err != nil {
		return fmt.Errorf("dropdown %s: list options: %w", field.Ref(), err)
	}

	cands := make([]Candidate, len(opts))
	for i, o := range opts {
		cands[i] = Candidate{Value: o.Value, Text: o.Text, Skip: o.Disabled || o.Placeholder()}
	}

	idx, tier := Match(variations, cands)
	if idx < 0 {
		r.logger.Debug("No native option matched", "ref", field.Ref(), "options", len(opts))
		return fmt.Errorf("dropdown %s: %d options: %w", field.Ref(), len(opts), entity.ErrDropdownNoMatch)
	}

	if err := field.SelectIndex(ctx, opts[idx].Index); err != nil {
		return fmt.Errorf("dropdown %s: select %d: %w", field.Ref(), opts[idx].Index, err)
	}
	for _, t := range []entity.EventType{entity.EventChange, entity.EventInput} {
		if err := field.Dispatch(ctx, entity.Event{Type: t}); err != nil {
			return fmt.Errorf("dropdown %s: dispatch %s: %w", field.Ref(), t, err)
		}
	}

	r.logger.Debug("Native option selected", "ref", field.Ref(), "option", opts[idx].Text, "tier", tier.String())
	return nil
}

type rendered struct {
	el   output.Element
	text string
}

func (r *Resolver) selectCustom(ctx context.Context, page output.PageModel, field output.CustomChoiceField, variations []string) error {
	if err := field.Pointer(ctx, entity.OpenSequence); err != nil {
		return fmt.Errorf("dropdown %s: open: %w", field.Ref(), err)
	}

	var options []rendered
	for attempt := 1; attempt <= r.cfg.PollAttempts && len(options) == 0; attempt++ {
		if err := r.sleep(ctx, time.Duration(attempt)*r.cfg.PollDelay); err != nil {
			return fmt.Errorf("dropdown %s: poll wait: %w", field.Ref(), err)
		}
		found, err := r.renderedOptions(ctx, page)
		if err != nil {
			r.close(ctx, page)
			return fmt.Errorf("dropdown %s: poll %d: %w", field.Ref(), attempt, err)
		}
		options = found
	}

	if len(options) == 0 {
		r.close(ctx, page)
		return fmt.Errorf("dropdown %s: after %d polls: %w", field.Ref(), r.cfg.PollAttempts, entity.ErrDropdownRenderTimeout)
	}

	cands := make([]Candidate, len(options))
	for i, o := range options {
		cands[i] = Candidate{Text: o.text, Skip: entity.IsPlaceholderText(o.text)}
	}
	idx, tier := Match(variations, cands)
	if idx < 0 {
		r.close(ctx, page)
		return fmt.Errorf("dropdown %s: %d rendered options: %w", field.Ref(), len(options), entity.ErrDropdownNoMatch)
	}

	chosen := options[idx]
	if err := chosen.el.Pointer(ctx, entity.HoverClickSequence); err != nil {
		r.close(ctx, page)
		return fmt.Errorf("dropdown %s: click option: %w", field.Ref(), err)
	}
	if err := field.Dispatch(ctx, entity.Event{Type: entity.EventChange}); err != nil {
		return fmt.Errorf("dropdown %s: dispatch change: %w", field.Ref(), err)
	}

	r.logger.Debug("Custom option selected", "ref", field.Ref(), "option", chosen.text, "tier", tier.String())
	return nil
}

// renderedOptions returns the laid-out, non-empty options of the first
// selector that yields any.
func (r *Resolver) renderedOptions(ctx context.Context, page output.PageModel) ([]rendered, error) {
	opts := entity.DefaultDescribeOptions()
	for _, sel := range r.selectors {
		els, err := page.Query(ctx, sel)
		if err != nil {
			return nil, err
		}
		var out []rendered
		for _, el := range els {
			info, err := el.Describe(ctx, opts)
			if err != nil {
				continue
			}
			text := info.Text
			if text == "" {
				text = info.AriaLabel
			}
			if !info.Visible || !info.HasSize || text == "" {
				continue
			}
			out = append(out, rendered{el: el, text: text})
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

func (r *Resolver) close(ctx context.Context, page output.PageModel) {
	if err := page.ClickNeutral(ctx); err != nil {
		r.logger.Debug("Neutral click failed", "error", err)
	}
}
