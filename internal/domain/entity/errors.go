package entity

import "errors"

var (
	ErrNoCandidateFields     = errors.New("no candidate fields")
	ErrFieldWrite            = errors.New("field write failed")
	ErrDropdownNoMatch       = errors.New("no dropdown option matched")
	ErrDropdownRenderTimeout = errors.New("dropdown options never rendered")
	ErrNotTextField          = errors.New("element is not a text field")
	ErrNotChoiceField        = errors.New("element is not a choice field")
	ErrUnknownAction         = errors.New("unknown action")
)

// ErrSuperseded is the cancellation cause of a request replaced by a newer one
// on the same page.
var ErrSuperseded = errors.New("superseded by a newer request")
