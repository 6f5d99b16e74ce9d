package input

import (
	"context"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
)

// Autofiller fills the form on page with values from profile. It never fails:
// every problem is reported inside the outcome.
type Autofiller interface {
	Autofill(ctx context.Context, page output.PageModel, profile entity.Profile) *entity.FillOutcome
}
