package entity

import "strings"

// FieldTag is the semantic identity of a form field.
type FieldTag string

const (
	FieldFullName        FieldTag = "full_name"
	FieldFirstName       FieldTag = "first_name"
	FieldLastName        FieldTag = "last_name"
	FieldEmail           FieldTag = "email"
	FieldPhone           FieldTag = "phone"
	FieldPhoneExtension  FieldTag = "phone_extension"
	FieldPhoneDeviceType FieldTag = "phone_device_type"
	FieldLinkedIn        FieldTag = "linkedin"
	FieldGitHub          FieldTag = "github"
	FieldPortfolio       FieldTag = "portfolio"
	FieldAddressLine     FieldTag = "address_line"
	FieldCity            FieldTag = "city"
	FieldState           FieldTag = "state"
	FieldPostalCode      FieldTag = "postal_code"
	FieldCountry         FieldTag = "country"
)

// AllFieldTags lists every tag in declaration order.
var AllFieldTags = []FieldTag{
	FieldFullName,
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldPhoneExtension,
	FieldPhoneDeviceType,
	FieldLinkedIn,
	FieldGitHub,
	FieldPortfolio,
	FieldAddressLine,
	FieldCity,
	FieldState,
	FieldPostalCode,
	FieldCountry,
}

func (t FieldTag) String() string {
	return string(t)
}

// IsExclusion reports whether the tag marks an element that must never be filled.
func (t FieldTag) IsExclusion() bool {
	return t == FieldPhoneExtension
}

// ChoiceKind selects the synonym table used when the tag lands on a dropdown.
func (t FieldTag) ChoiceKind() ChoiceKind {
	switch t {
	case FieldState:
		return ChoiceState
	case FieldPhoneDeviceType:
		return ChoiceDeviceType
	case FieldCountry:
		return ChoiceCountry
	default:
		return ChoiceDefault
	}
}

// ParseFieldTag accepts the canonical snake_case name as well as the camelCase
// spelling used by browser-extension payloads ("firstName", "postalCode").
func ParseFieldTag(s string) (FieldTag, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	for _, tag := range AllFieldTags {
		if strings.ReplaceAll(string(tag), "_", "") == key {
			return tag, true
		}
	}
	return "", false
}

// ChoiceKind is the fieldKind argument of the dropdown resolver.
type ChoiceKind string

const (
	ChoiceState      ChoiceKind = "state"
	ChoiceDeviceType ChoiceKind = "device_type"
	ChoiceCountry    ChoiceKind = "country"
	ChoiceDefault    ChoiceKind = "default"
)
