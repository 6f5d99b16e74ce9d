package autofill

import (
	"context"

	"autofill-agent/internal/domain/entity"
)

func (uc *UseCase) budget(async bool) int {
	if async && uc.cfg.AsyncMaxAttempts > 1 {
		return uc.cfg.AsyncMaxAttempts
	}
	return 1
}

// retry runs passes until one fills something or the budget is spent. The
// inter-attempt delay only happens after a pass that filled nothing.
func (r *request) retry(ctx context.Context) {
	state := entity.NewAttemptState(r.uc.budget(r.site.AsyncForm))
	for state.Next() {
		state.Observe(r.pass(ctx))
		if state.Done() || ctx.Err() != nil {
			break
		}
		r.log.Debug("Nothing filled, retrying", "attempt", state.Attempt, "max", state.Max)
		if err := r.uc.sleep(ctx, r.uc.cfg.RetryDelay); err != nil {
			break
		}
	}
	r.outcome.Attempts = state.Attempt
	r.log.Debug("Retry loop ended", "phase", state.Phase, "attempts", state.Attempt)
}
