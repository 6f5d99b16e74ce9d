package entity

// NoFieldsMessage is reported when a request could not fill anything.
const NoFieldsMessage = "No form fields found on this page"

// FieldResult records what happened to one classified element.
type FieldResult struct {
	Ref        string     `json:"ref"`
	Tag        FieldTag   `json:"tag"`
	Capability Capability `json:"capability"`
	Success    bool       `json:"success"`
	Reason     string     `json:"reason,omitempty"`
}

// FillOutcome aggregates one autofill request.
type FillOutcome struct {
	RequestID string        `json:"request_id,omitempty"`
	Site      string        `json:"site,omitempty"`
	Attempts  int           `json:"attempts"`
	Attempted int           `json:"attempted"`
	Filled    int           `json:"filled"`
	Fields    []FieldResult `json:"fields,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Record appends a per-field result and updates the counters.
func (o *FillOutcome) Record(r FieldResult) {
	o.Fields = append(o.Fields, r)
	o.Attempted++
	if r.Success {
		o.Filled++
	}
}

// Finish derives Success and Error from the counters.
func (o *FillOutcome) Finish() {
	o.Success = o.Filled > 0
	if !o.Success && o.Error == "" {
		o.Error = NoFieldsMessage
	}
	if o.Success {
		o.Error = ""
	}
}
