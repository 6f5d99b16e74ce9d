// Package resolver flattens a Profile into the per-tag values the fill stages
// consume.
package resolver

import (
	"strings"

	"autofill-agent/internal/domain/entity"
)

// DefaultDeviceType is used when the profile does not name a phone device type.
const DefaultDeviceType = "Mobile"

// Resolve maps every FieldTag to a string. Missing attributes resolve to "",
// which downstream stages read as "do not attempt this field".
func Resolve(p entity.Profile) entity.Values {
	first, last := strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName)
	full := strings.TrimSpace(p.FullName)
	if first == "" && last == "" {
		first, last = SplitName(full)
	}
	if full == "" {
		full = strings.TrimSpace(first + " " + last)
	}

	portfolio := strings.TrimSpace(p.Portfolio)
	if portfolio == "" {
		portfolio = strings.TrimSpace(p.Website)
	}

	city, state := strings.TrimSpace(p.City), strings.TrimSpace(p.State)
	if city == "" || state == "" {
		locCity, locState := splitLocation(p.Location)
		if city == "" {
			city = locCity
		}
		if state == "" {
			state = locState
		}
	}

	device := strings.TrimSpace(p.PhoneDeviceType)
	if device == "" {
		device = DefaultDeviceType
	}

	v := entity.Values{
		entity.FieldFullName:        full,
		entity.FieldFirstName:       first,
		entity.FieldLastName:        last,
		entity.FieldEmail:           strings.TrimSpace(p.Email),
		entity.FieldPhone:           strings.TrimSpace(p.Phone),
		entity.FieldPhoneExtension:  "",
		entity.FieldPhoneDeviceType: device,
		entity.FieldLinkedIn:        strings.TrimSpace(p.LinkedIn),
		entity.FieldGitHub:          strings.TrimSpace(p.GitHub),
		entity.FieldPortfolio:       portfolio,
		entity.FieldAddressLine:     strings.TrimSpace(p.Address),
		entity.FieldCity:            city,
		entity.FieldState:           state,
		entity.FieldPostalCode:      strings.TrimSpace(p.PostalCode),
		entity.FieldCountry:         strings.TrimSpace(p.Country),
	}

	for key, val := range p.AutofillData {
		tag, ok := entity.ParseFieldTag(key)
		if !ok || tag.IsExclusion() {
			continue
		}
		if val = strings.TrimSpace(val); val != "" {
			v[tag] = val
		}
	}
	return v
}

// SplitName splits a full name on whitespace: the first token is the first
// name and the rest the last name. A single token yields an empty last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// splitLocation reads "City, ST" style locations. A value without a comma is
// taken as a city.
func splitLocation(loc string) (city, state string) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return "", ""
	}
	parts := strings.Split(loc, ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}
