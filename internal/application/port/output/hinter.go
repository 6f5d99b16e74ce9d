package output

import (
	"context"

	"autofill-agent/internal/domain/entity"
)

// FieldCandidate is an element both pattern passes left unclassified.
type FieldCandidate struct {
	Ref  string
	Info entity.ElementInfo
}

// FieldHinter suggests tags for unclassified elements. Implementations may be
// slow or wrong; callers treat every answer as advisory.
type FieldHinter interface {
	Hint(ctx context.Context, candidates []FieldCandidate) (map[string]entity.FieldTag, error)
}
