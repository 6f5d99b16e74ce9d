package patterns

import (
	"strings"

	"autofill-agent/internal/domain/entity"
)

// Synonyms widens dropdown matching. Keys of every map are lower-cased.
type Synonyms struct {
	// States maps region abbreviations to full names.
	States map[string]string
	// DeviceTypes maps a canonical device category to its accepted spellings.
	DeviceTypes map[string][]string
	// Countries maps a canonical country name to its accepted spellings.
	Countries map[string][]string

	stateNames map[string]string
}

func DefaultSynonyms() Synonyms {
	return NewSynonyms(usStates, deviceTypes, countries)
}

// NewSynonyms builds a table from the given maps. Keys are normalized.
func NewSynonyms(states map[string]string, devices, countries map[string][]string) Synonyms {
	s := Synonyms{
		States:      make(map[string]string, len(states)),
		DeviceTypes: make(map[string][]string, len(devices)),
		Countries:   make(map[string][]string, len(countries)),
		stateNames:  make(map[string]string, len(states)),
	}
	for abbr, name := range states {
		s.States[norm(abbr)] = name
		s.stateNames[norm(name)] = strings.ToUpper(strings.TrimSpace(abbr))
	}
	for k, v := range devices {
		s.DeviceTypes[norm(k)] = append([]string(nil), v...)
	}
	for k, v := range countries {
		s.Countries[norm(k)] = append([]string(nil), v...)
	}
	return s
}

func (s Synonyms) Clone() Synonyms {
	return NewSynonyms(s.States, s.DeviceTypes, s.Countries)
}

// Merge returns a table holding both s and other; other wins on conflicts.
func (s Synonyms) Merge(other Synonyms) Synonyms {
	states := make(map[string]string, len(s.States)+len(other.States))
	for k, v := range s.States {
		states[k] = v
	}
	for k, v := range other.States {
		states[k] = v
	}
	devices := make(map[string][]string, len(s.DeviceTypes)+len(other.DeviceTypes))
	for k, v := range s.DeviceTypes {
		devices[k] = v
	}
	for k, v := range other.DeviceTypes {
		devices[k] = v
	}
	countries := make(map[string][]string, len(s.Countries)+len(other.Countries))
	for k, v := range s.Countries {
		countries[k] = v
	}
	for k, v := range other.Countries {
		countries[k] = v
	}
	return NewSynonyms(states, devices, countries)
}

// Variations returns the candidate spellings for value, the value itself first.
func (s Synonyms) Variations(value string, kind entity.ChoiceKind) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	caseVariants := func(v string) {
		add(v)
		add(strings.ToUpper(v))
		add(strings.ToLower(v))
	}

	switch kind {
	case entity.ChoiceState:
		caseVariants(value)
		if full, ok := s.States[norm(value)]; ok {
			caseVariants(full)
		} else if abbr, ok := s.stateNames[norm(value)]; ok {
			caseVariants(abbr)
		}
	case entity.ChoiceDeviceType:
		if list := lookupGroup(s.DeviceTypes, value); list != nil {
			add(value)
			for _, v := range list {
				add(v)
			}
			return out
		}
		caseVariants(value)
	case entity.ChoiceCountry:
		if list := lookupGroup(s.Countries, value); list != nil {
			add(value)
			for _, v := range list {
				add(v)
			}
			return out
		}
		caseVariants(value)
	default:
		caseVariants(value)
	}
	return out
}

// lookupGroup finds the synonym group containing value, by key or member.
func lookupGroup(groups map[string][]string, value string) []string {
	key := norm(value)
	if list, ok := groups[key]; ok {
		return list
	}
	for _, list := range groups {
		for _, v := range list {
			if norm(v) == key {
				return list
			}
		}
	}
	return nil
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

var deviceTypes = map[string][]string{
	"mobile": {"Mobile", "Cell", "Cell Phone", "Cellular", "Mobile Phone", "Personal Cell"},
	"home":   {"Home", "Landline", "Home Phone", "Residence"},
	"work":   {"Work", "Business", "Office", "Work Phone"},
	"other":  {"Other"},
}

var countries = map[string][]string{
	"united states":  {"United States", "United States of America", "USA", "US", "U.S.", "U.S.A."},
	"united kingdom": {"United Kingdom", "UK", "U.K.", "Great Britain", "England"},
	"canada":         {"Canada", "CA", "CAN"},
	"germany":        {"Germany", "Deutschland", "DE"},
	"india":          {"India", "IN", "IND"},
}

var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming", "PR": "Puerto Rico",
}
