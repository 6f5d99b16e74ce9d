package filler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/usecase/timing"
)

type Config struct {
	// VerifyDelay is how long a page gets to react to a write before the value
	// is read back.
	VerifyDelay time.Duration
}

func DefaultConfig() Config {
	return Config{VerifyDelay: 100 * time.Millisecond}
}

type Option func(*Engine)

func WithSleep(s timing.SleepFunc) Option {
	return func(e *Engine) { e.sleep = s }
}

// Engine writes values into text-like elements in a way the page's own
// framework observes.
type Engine struct {
	cfg    Config
	sleep  timing.SleepFunc
	logger output.LoggerPort
}

func New(cfg Config, logger output.LoggerPort, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, sleep: timing.Sleep, logger: logger}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Fill writes value through the native setter and verifies it stuck. When the
// page rejected the write, it retypes the value one key at a time. Errors wrap
// entity.ErrFieldWrite or entity.ErrNotTextField.
func (e *Engine) Fill(ctx context.Context, el output.Element, value string) error {
	field, ok := el.(output.TextField)
	if !ok {
		return fmt.Errorf("fill %s: %w", el.Ref(), entity.ErrNotTextField)
	}

	if err := e.writeNative(ctx, field, value); err != nil {
		return e.writeErr(field, "native write", err)
	}

	if err := e.sleep(ctx, e.cfg.VerifyDelay); err != nil {
		return e.writeErr(field, "verify wait", err)
	}

	observed, err := field.Value(ctx)
	if err != nil {
		return e.writeErr(field, "read back", err)
	}
	if observed == value {
		return nil
	}

	e.logger.Debug("Native write not observed, typing",
		"ref", field.Ref(),
		"observed_len", len(observed),
	)

	if err := e.typeValue(ctx, field, value); err != nil {
		return e.writeErr(field, "typing", err)
	}

	observed, err = field.Value(ctx)
	if err != nil {
		return e.writeErr(field, "read back", err)
	}
	if strings.TrimSpace(observed) == "" {
		return fmt.Errorf("fill %s: value empty after typing: %w", field.Ref(), entity.ErrFieldWrite)
	}
	return nil
}

func (e *Engine) writeNative(ctx context.Context, field output.TextField, value string) error {
	if err := field.SetNativeValue(ctx, ""); err != nil {
		return err
	}
	if err := field.SetNativeValue(ctx, value); err != nil {
		return err
	}
	return dispatchAll(ctx, field,
		entity.Event{Type: entity.EventInput, Data: value},
		entity.Event{Type: entity.EventChange},
		entity.Event{Type: entity.EventBlur},
	)
}

func (e *Engine) typeValue(ctx context.Context, field output.TextField, value string) error {
	if err := field.Focus(ctx); err != nil {
		return err
	}
	if err := field.SetNativeValue(ctx, ""); err != nil {
		return err
	}

	var typed strings.Builder
	for _, r := range value {
		key := string(r)
		typed.WriteRune(r)
		if err := field.Dispatch(ctx, entity.Event{Type: entity.EventKeyDown, Key: key}); err != nil {
			return err
		}
		if err := field.SetNativeValue(ctx, typed.String()); err != nil {
			return err
		}
		if err := dispatchAll(ctx, field,
			entity.Event{Type: entity.EventInput, Data: key},
			entity.Event{Type: entity.EventKeyUp, Key: key},
		); err != nil {
			return err
		}
	}

	return dispatchAll(ctx, field,
		entity.Event{Type: entity.EventChange},
		entity.Event{Type: entity.EventBlur},
	)
}

// Revalidate replays focus, input and blur over every field that still holds
// a value, then clicks a neutral spot so outside-click validators run.
func (e *Engine) Revalidate(ctx context.Context, page output.PageModel, fields []output.TextField) error {
	var errs []error
	for _, f := range fields {
		v, err := f.Value(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("revalidate %s: %w", f.Ref(), err))
			continue
		}
		if strings.TrimSpace(v) == "" {
			continue
		}
		if err := f.Focus(ctx); err != nil {
			errs = append(errs, fmt.Errorf("revalidate %s: %w", f.Ref(), err))
			continue
		}
		if err := dispatchAll(ctx, f,
			entity.Event{Type: entity.EventInput, Data: v},
			entity.Event{Type: entity.EventBlur},
		); err != nil {
			errs = append(errs, fmt.Errorf("revalidate %s: %w", f.Ref(), err))
		}
	}
	if err := page.ClickNeutral(ctx); err != nil {
		errs = append(errs, fmt.Errorf("neutral click: %w", err))
	}
	return errors.Join(errs...)
}

func (e *Engine) writeErr(field output.TextField, stage string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fill %s: %s: %w", field.Ref(), stage, err)
	}
	return fmt.Errorf("fill %s: %s: %w: %w", field.Ref(), stage, entity.ErrFieldWrite, err)
}

func dispatchAll(ctx context.Context, el output.Element, events ...entity.Event) error {
	for _, ev := range events {
		if err := el.Dispatch(ctx, ev); err != nil {
			return fmt.Errorf("dispatch %s: %w", ev.Type, err)
		}
	}
	return nil
}
