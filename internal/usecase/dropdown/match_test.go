package dropdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(ts ...string) []Candidate {
	out := make([]Candidate, len(ts))
	for i, t := range ts {
		out[i] = Candidate{Text: t}
	}
	return out
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		variations []string
		cands      []Candidate
		wantIdx    int
		wantTier   Tier
	}{
		{"exact text", []string{"Mobile"}, texts("Home", "Mobile"), 1, TierExact},
		{"exact value", []string{"CA"}, []Candidate{{Value: "TX", Text: "Texas"}, {Value: "CA", Text: "California"}}, 1, TierExact},
		{"exact beats substring", []string{"Mobile"}, texts("Mobile Phone", "Mobile"), 1, TierExact},
		{"exact on later variation beats substring on first", []string{"Cell", "Mobile"}, texts("Cellular Line", "Mobile"), 1, TierExact},
		{"option contains target", []string{"Mobile"}, texts("Home", "Personal Mobile"), 1, TierOptionContains},
		{"option is prefix of target", []string{"Mobile Phone"}, texts("Home", "Mob"), 1, TierOptionContains},
		{"target contains option", []string{"Senior Software Engineer"}, texts("Engineer"), 0, TierTargetContains},
		{"target is prefix of option", []string{"united"}, []Candidate{{Text: "x"}, {Text: "United States"}}, 1, TierOptionContains},
		{"single char option ignored", []string{"Xylophone"}, texts("X"), -1, TierNone},
		{"case and space insensitive", []string{"california"}, texts(" CALIFORNIA "), 0, TierExact},
		{"skip disabled", []string{"Mobile"}, []Candidate{{Text: "Mobile", Skip: true}, {Text: "Mobile Phone"}}, 1, TierOptionContains},
		{"no variations", nil, texts("Mobile"), -1, TierNone},
		{"no match", []string{"Fax"}, texts("Home", "Work"), -1, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, tier := Match(tt.variations, tt.cands)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantTier, tier)
		})
	}
}
