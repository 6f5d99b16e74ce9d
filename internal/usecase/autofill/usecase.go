// Package autofill is the coordinator: it detects the site, resolves profile
// values, drives classification and the fill stages through the retry loop,
// and replays validation once something was filled.
package autofill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"autofill-agent/internal/application/port/input"
	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/application/service"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/usecase/classifier"
	"autofill-agent/internal/usecase/dropdown"
	"autofill-agent/internal/usecase/filler"
	"autofill-agent/internal/usecase/resolver"
	"autofill-agent/internal/usecase/timing"
)

var _ input.Autofiller = (*UseCase)(nil)

type Config struct {
	// AsyncMaxAttempts is the pass budget on sites that build their form
	// after load. Every other site gets exactly one pass.
	AsyncMaxAttempts int
	RetryDelay       time.Duration
	ValidationDelay  time.Duration
}

func DefaultConfig() Config {
	return Config{
		AsyncMaxAttempts: 3,
		RetryDelay:       1500 * time.Millisecond,
		ValidationDelay:  500 * time.Millisecond,
	}
}

type Option func(*UseCase)

func WithSleep(s timing.SleepFunc) Option {
	return func(uc *UseCase) { uc.sleep = s }
}

type UseCase struct {
	cfg        Config
	classifier *classifier.Classifier
	filler     *filler.Engine
	dropdown   *dropdown.Resolver
	requests   *service.RequestRegistry[output.PageModel]
	sleep      timing.SleepFunc
	logger     output.LoggerPort
}

func New(
	cfg Config,
	cls *classifier.Classifier,
	fill *filler.Engine,
	dd *dropdown.Resolver,
	logger output.LoggerPort,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		cfg:        cfg,
		classifier: cls,
		filler:     fill,
		dropdown:   dd,
		requests:   service.NewRequestRegistry[output.PageModel](),
		sleep:      timing.Sleep,
		logger:     logger,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Autofill fills page from profile. It never returns nil and never panics on
// page failures; every problem is reported through the outcome. The call
// returns only after every wait of the request, validation included, is over.
func (uc *UseCase) Autofill(ctx context.Context, page output.PageModel, profile entity.Profile) *entity.FillOutcome {
	outcome := &entity.FillOutcome{RequestID: uuid.NewString()}
	log := uc.logger.WithField("request_id", outcome.RequestID)

	ctx, release, err := uc.requests.Begin(ctx, page)
	if err != nil {
		outcome.Error = fmt.Sprintf("request cancelled: %v", err)
		outcome.Finish()
		return outcome
	}
	defer release()

	site := uc.classifier.DetectSite(ctx, page)
	outcome.Site = site.Name
	log = log.WithFields(map[string]any{"site": site.Name, "url": page.URL()})
	log.Info("Autofill started", "async_form", site.AsyncForm)

	values := resolver.Resolve(profile)
	run := &request{
		uc:      uc,
		page:    page,
		site:    site,
		values:  values,
		outcome: outcome,
		visited: make(map[string]bool),
		log:     log,
	}
	run.retry(ctx)

	if outcome.Filled > 0 {
		run.validate(ctx)
	}

	if err := ctx.Err(); err != nil && outcome.Filled == 0 {
		cause := context.Cause(ctx)
		if errors.Is(cause, entity.ErrSuperseded) {
			outcome.Error = entity.ErrSuperseded.Error()
		} else {
			outcome.Error = fmt.Sprintf("request cancelled: %v", cause)
		}
	}
	outcome.Finish()

	log.Info("Autofill finished",
		"success", outcome.Success,
		"attempts", outcome.Attempts,
		"attempted", outcome.Attempted,
		"filled", outcome.Filled,
	)
	return outcome
}

// request is the state of one Autofill call. The visited set and the filled
// text fields never outlive it.
type request struct {
	uc      *UseCase
	page    output.PageModel
	site    entity.SiteProfile
	values  entity.Values
	outcome *entity.FillOutcome
	visited map[string]bool
	filled  []output.TextField
	log     output.LoggerPort
}

// pass classifies the page once and fills every unvisited element that has a
// value. It returns how many elements this pass filled.
func (r *request) pass(ctx context.Context) int {
	items, err := r.uc.classifier.Classify(ctx, r.page, r.site)
	if err != nil {
		r.log.Warn("Classification failed", "error", err)
		return 0
	}

	filled := 0
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		ref := item.Ref()
		if r.visited[ref] {
			continue
		}
		value := r.values.Get(item.Tag)
		if value == "" {
			continue
		}
		r.visited[ref] = true

		err := r.fill(ctx, item, value)
		result := entity.FieldResult{
			Ref:        ref,
			Tag:        item.Tag,
			Capability: item.Capability,
			Success:    err == nil,
		}
		if err != nil {
			result.Reason = err.Error()
			r.log.Debug("Field not filled", "ref", ref, "tag", item.Tag, "error", err)
		} else {
			filled++
			r.log.Debug("Field filled", "ref", ref, "tag", item.Tag, "source", item.Source)
		}
		r.outcome.Record(result)
	}
	return filled
}

func (r *request) fill(ctx context.Context, item classifier.Classified, value string) error {
	switch item.Capability {
	case entity.CapabilityText:
		if err := r.uc.filler.Fill(ctx, item.Element, value); err != nil {
			return err
		}
		if tf, ok := item.Element.(output.TextField); ok {
			r.filled = append(r.filled, tf)
		}
		return nil
	case entity.CapabilitySingleChoice, entity.CapabilityCustomChoice:
		return r.uc.dropdown.ResolveAndSelect(ctx, r.page, item.Element, item.Capability, value, item.Tag.ChoiceKind())
	default:
		return fmt.Errorf("field %s: capability %s: %w", item.Ref(), item.Capability, entity.ErrFieldWrite)
	}
}

func (r *request) validate(ctx context.Context) {
	if err := r.uc.sleep(ctx, r.uc.cfg.ValidationDelay); err != nil {
		r.log.Debug("Validation skipped", "error", err)
		return
	}
	if err := r.uc.filler.Revalidate(ctx, r.page, r.filled); err != nil {
		r.log.Warn("Validation replay incomplete", "error", err)
	}
}
