package dropdown

import "strings"

// Tier tells which stage of the cascade produced a match.
type Tier int

const (
	TierNone Tier = iota
	// TierExact is trimmed, case-insensitive equality with value or text.
	TierExact
	// TierOptionContains means the option text contains the target, or is a
	// prefix of it.
	TierOptionContains
	// TierTargetContains means the target contains the option text, or is a
	// prefix of it. Single-character option texts never match here.
	TierTargetContains
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierOptionContains:
		return "option_contains"
	case TierTargetContains:
		return "target_contains"
	default:
		return "none"
	}
}

// Candidate is one selectable option. Skip marks placeholders and disabled
// entries that take part in indexing but never match.
type Candidate struct {
	Value string
	Text  string
	Skip  bool
}

// Match runs the three-tier cascade over every variation and candidate. A
// tier is exhausted across all variations before the next one is tried, so an
// exact hit on any spelling beats a substring hit on the first.
func Match(variations []string, cands []Candidate) (int, Tier) {
	targets := make([]string, 0, len(variations))
	for _, v := range variations {
		if v = fold(v); v != "" {
			targets = append(targets, v)
		}
	}
	if len(targets) == 0 {
		return -1, TierNone
	}

	type folded struct{ value, text string }
	opts := make([]folded, len(cands))
	for i, c := range cands {
		opts[i] = folded{value: fold(c.Value), text: fold(c.Text)}
	}

	for _, tier := range []Tier{TierExact, TierOptionContains, TierTargetContains} {
		for _, target := range targets {
			for i, c := range cands {
				if c.Skip {
					continue
				}
				if matches(tier, target, opts[i].value, opts[i].text) {
					return i, tier
				}
			}
		}
	}
	return -1, TierNone
}

func matches(tier Tier, target, value, text string) bool {
	switch tier {
	case TierExact:
		return (value != "" && value == target) || (text != "" && text == target)
	case TierOptionContains:
		if text == "" {
			return false
		}
		return strings.Contains(text, target) || (len([]rune(text)) > 1 && strings.HasPrefix(target, text))
	case TierTargetContains:
		if len([]rune(text)) <= 1 {
			return false
		}
		return strings.Contains(target, text) || strings.HasPrefix(text, target)
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
