package entity

type EventType string

const (
	EventInput        EventType = "input"
	EventChange       EventType = "change"
	EventFocus        EventType = "focus"
	EventBlur         EventType = "blur"
	EventKeyDown      EventType = "keydown"
	EventKeyUp        EventType = "keyup"
	EventClick        EventType = "click"
	EventMouseDown    EventType = "mousedown"
	EventMouseUp      EventType = "mouseup"
	EventMouseOver    EventType = "mouseover"
	EventMouseEnter   EventType = "mouseenter"
	EventPointerDown  EventType = "pointerdown"
	EventPointerUp    EventType = "pointerup"
	EventPointerOver  EventType = "pointerover"
	EventPointerEnter EventType = "pointerenter"
)

// Event is a synthetic user-interaction notification.
type Event struct {
	Type EventType `json:"type"`
	// Data is the inserted text of an input event.
	Data string `json:"data,omitempty"`
	// Key is the key name of keydown/keyup events.
	Key string `json:"key,omitempty"`
}

// OpenSequence is what a real click on a dropdown trigger produces.
var OpenSequence = []EventType{
	EventPointerDown,
	EventMouseDown,
	EventFocus,
	EventMouseUp,
	EventClick,
}

// HoverClickSequence is what moving onto an option and clicking it produces.
var HoverClickSequence = []EventType{
	EventPointerOver,
	EventPointerEnter,
	EventMouseOver,
	EventMouseEnter,
	EventPointerDown,
	EventMouseDown,
	EventPointerUp,
	EventMouseUp,
	EventClick,
}
