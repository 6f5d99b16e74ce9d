package entity

import "strings"

// AncestorDepth is how many ancestor containers contribute text to an element's
// searchable description.
const AncestorDepth = 5

type ElementKind string

const (
	KindTextInput       ElementKind = "text_input"
	KindTextArea        ElementKind = "text_area"
	KindNativeSelect    ElementKind = "native_select"
	KindCustomWidget    ElementKind = "custom_widget"
	KindContentEditable ElementKind = "content_editable"
	KindOther           ElementKind = "other"
)

// Capability is how downstream components may drive an element. It is derived
// once from the element kind at classification time.
type Capability string

const (
	CapabilityNone         Capability = "none"
	CapabilityText         Capability = "text"
	CapabilitySingleChoice Capability = "single_choice"
	CapabilityCustomChoice Capability = "custom_choice"
)

func (k ElementKind) Capability() Capability {
	switch k {
	case KindTextInput, KindTextArea, KindContentEditable:
		return CapabilityText
	case KindNativeSelect:
		return CapabilitySingleChoice
	case KindCustomWidget:
		return CapabilityCustomChoice
	default:
		return CapabilityNone
	}
}

// DescribeOptions tells a page model which structural attribute to report and
// how far up the ancestor chain to look.
type DescribeOptions struct {
	StructuralAttr string
	Depth          int
}

func DefaultDescribeOptions() DescribeOptions {
	return DescribeOptions{StructuralAttr: "data-automation-id", Depth: AncestorDepth}
}

// ElementInfo is a snapshot of everything the classifier needs to know about one element.
type ElementInfo struct {
	Kind         ElementKind `json:"kind"`
	Tag          string      `json:"tag"`
	Type         string      `json:"type,omitempty"`
	Name         string      `json:"name,omitempty"`
	ID           string      `json:"id,omitempty"`
	Placeholder  string      `json:"placeholder,omitempty"`
	AriaLabel    string      `json:"aria_label,omitempty"`
	TestID       string      `json:"test_id,omitempty"`
	StructuralID string      `json:"structural_id,omitempty"`
	Autocomplete string      `json:"autocomplete,omitempty"`
	Role         string      `json:"role,omitempty"`
	Value        string      `json:"value,omitempty"`
	Chosen       bool        `json:"chosen,omitempty"`
	Text         string      `json:"text,omitempty"`
	Label        string      `json:"label,omitempty"`
	Ancestors    []string    `json:"ancestors,omitempty"`
	Visible      bool        `json:"visible"`
	HasSize      bool        `json:"has_size"`
	Disabled     bool        `json:"disabled"`
	ReadOnly     bool        `json:"read_only"`
}

// Interactable reports whether the element may receive a value at all.
func (i *ElementInfo) Interactable() bool {
	return i.Visible && !i.Disabled && !i.ReadOnly
}

// HasValue reports whether the element already holds a non-empty trimmed value.
// Placeholder captions of custom widgets ("Select One") do not count, nor does
// a native select that is not Chosen, i.e. still on the browser's default option.
func (i *ElementInfo) HasValue() bool {
	v := strings.TrimSpace(i.Value)
	if v == "" {
		return false
	}
	if i.Kind == KindNativeSelect && !i.Chosen {
		return false
	}
	if i.Kind == KindCustomWidget && IsPlaceholderText(v) {
		return false
	}
	return true
}

// Searchable joins the element's attributes, label and ancestor texts into one
// lower-cased, newline separated string. Patterns compiled with (?m) can anchor
// on individual parts.
func (i *ElementInfo) Searchable() string {
	parts := []string{
		i.Name, i.ID, i.Placeholder, i.AriaLabel, i.TestID,
		i.StructuralID, i.Autocomplete, i.Label,
	}
	if i.Kind == KindCustomWidget {
		parts = append(parts, i.Text)
	}
	parts = append(parts, i.Ancestors...)

	var sb strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.ToLower(p))
	}
	return sb.String()
}

var placeholderPrefixes = []string{"select", "choose", "please select", "--", "pick"}

// IsPlaceholderText recognizes the caption a dropdown shows before a choice is made.
func IsPlaceholderText(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// Option is one entry of a native selection list.
type Option struct {
	Index    int    `json:"index"`
	Value    string `json:"value"`
	Text     string `json:"text"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Placeholder reports options such as <option value="">Select...</option>.
func (o Option) Placeholder() bool {
	return strings.TrimSpace(o.Value) == "" && IsPlaceholderText(o.Text)
}
