package patterns

import "autofill-agent/internal/domain/entity"

const (
	SiteWorkday    = "workday"
	SiteGreenhouse = "greenhouse"
	SiteLever      = "lever"
)

func defaultSites() []entity.SiteProfile {
	return []entity.SiteProfile{
		{
			Name:           SiteWorkday,
			HostFragments:  []string{"myworkdayjobs", "workday"},
			StructuralAttr: "data-automation-id",
			DetectByAttr:   true,
			AsyncForm:      true,
			Identifiers: map[entity.FieldTag][]string{
				entity.FieldFirstName:       {"legalNameSection_firstName", "firstName"},
				entity.FieldLastName:        {"legalNameSection_lastName", "lastName"},
				entity.FieldEmail:           {"email"},
				entity.FieldPhone:           {"phone-number", "phoneNumber"},
				entity.FieldPhoneExtension:  {"phone-extension", "phoneExtension"},
				entity.FieldPhoneDeviceType: {"phone-device-type", "phoneDeviceType"},
				entity.FieldAddressLine:     {"addressSection_addressLine1"},
				entity.FieldCity:            {"addressSection_city"},
				entity.FieldState:           {"addressSection_countryRegion"},
				entity.FieldPostalCode:      {"addressSection_postalCode"},
				entity.FieldCountry:         {"countryDropdown"},
				entity.FieldLinkedIn:        {"linkedinQuestion"},
			},
		},
		{
			Name:           SiteGreenhouse,
			HostFragments:  []string{"greenhouse.io"},
			StructuralAttr: "id",
			Identifiers: map[entity.FieldTag][]string{
				entity.FieldFirstName: {"first_name"},
				entity.FieldLastName:  {"last_name"},
				entity.FieldEmail:     {"email"},
				entity.FieldPhone:     {"phone"},

				entity.FieldPhoneExtension: {"phone_extension", "phone_ext"},
			},
		},
		{
			Name:           SiteLever,
			HostFragments:  []string{"lever.co"},
			StructuralAttr: "name",
			Identifiers: map[entity.FieldTag][]string{
				entity.FieldFullName:  {"name"},
				entity.FieldEmail:     {"email"},
				entity.FieldPhone:     {"phone"},
				entity.FieldLinkedIn:  {"urls[LinkedIn]"},
				entity.FieldGitHub:    {"urls[GitHub]"},
				entity.FieldPortfolio: {"urls[Portfolio]"},

				entity.FieldPhoneExtension: {"phoneExtension", "phone_extension"},
			},
		},
	}
}

func cloneSite(s entity.SiteProfile) entity.SiteProfile {
	c := s
	c.HostFragments = append([]string(nil), s.HostFragments...)
	c.Priority = append([]entity.FieldTag(nil), s.Priority...)
	if s.Identifiers != nil {
		c.Identifiers = make(map[entity.FieldTag][]string, len(s.Identifiers))
		for tag, ids := range s.Identifiers {
			c.Identifiers[tag] = append([]string(nil), ids...)
		}
	}
	return c
}
