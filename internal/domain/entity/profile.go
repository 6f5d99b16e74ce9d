package entity

// Profile is the applicant record supplied by the caller. Every attribute is optional.
type Profile struct {
	ID              string            `json:"id,omitempty"`
	Label           string            `json:"label,omitempty"`
	FullName        string            `json:"full_name,omitempty"`
	FirstName       string            `json:"first_name,omitempty"`
	LastName        string            `json:"last_name,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	PhoneDeviceType string            `json:"phone_device_type,omitempty"`
	LinkedIn        string            `json:"linkedin,omitempty"`
	GitHub          string            `json:"github,omitempty"`
	Portfolio       string            `json:"portfolio,omitempty"`
	Website         string            `json:"website,omitempty"`
	Address         string            `json:"address,omitempty"`
	City            string            `json:"city,omitempty"`
	State           string            `json:"state,omitempty"`
	PostalCode      string            `json:"postal_code,omitempty"`
	Country         string            `json:"country,omitempty"`
	Location        string            `json:"location,omitempty"`
	AutofillData    map[string]string `json:"autofill_data,omitempty"`
}

// Values is the flat bag produced by the value resolver.
type Values map[FieldTag]string

// Get returns the value for tag, or "" when absent.
func (v Values) Get(tag FieldTag) string {
	if v == nil {
		return ""
	}
	return v[tag]
}
