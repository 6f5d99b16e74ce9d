// Package message is the invocation boundary: it decodes an action message,
// runs the autofill coordinator against the requested page and encodes the
// caller-facing response.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"autofill-agent/internal/application/port/input"
	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/application/service"
	"autofill-agent/internal/domain/entity"
)

const ActionAutofill = "autofill"

var ErrMissingProfile = errors.New("request carries neither profile nor profile_id")

type Request struct {
	Action    string          `json:"action"`
	Profile   *entity.Profile `json:"profile,omitempty"`
	URL       string          `json:"url,omitempty"`
	ProfileID string          `json:"profile_id,omitempty"`
}

type Response struct {
	Success     bool                `json:"success"`
	FilledCount int                 `json:"filledCount"`
	Error       string              `json:"error,omitempty"`
	Outcome     *entity.FillOutcome `json:"outcome,omitempty"`
}

func errorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// PageOpener returns the page a request runs against. An empty url means the
// page that is already open. A Handler calls it only while it holds the page
// session, so an opener may navigate freely.
type PageOpener func(ctx context.Context, url string) (output.PageModel, error)

// BrowserPages opens pages through a live browser.
func BrowserPages(b output.BrowserPort) PageOpener {
	return func(ctx context.Context, url string) (output.PageModel, error) {
		if url != "" {
			if err := b.Navigate(ctx, url); err != nil {
				return nil, err
			}
		}
		return b.Page(ctx)
	}
}

type Option func(*Handler)

// WithTracker enables profile lookup by id and post-fill notification.
func WithTracker(t output.TrackerPort) Option {
	return func(h *Handler) { h.tracker = t }
}

// pageSession keys the one session a Handler's opener serves.
const pageSession = "page"

type Handler struct {
	autofiller input.Autofiller
	pages      PageOpener
	sessions   *service.RequestRegistry[string]
	tracker    output.TrackerPort
	logger     output.LoggerPort
}

func NewHandler(autofiller input.Autofiller, pages PageOpener, logger output.LoggerPort, opts ...Option) *Handler {
	h := &Handler{
		autofiller: autofiller,
		pages:      pages,
		sessions:   service.NewRequestRegistry[string](),
		logger:     logger,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// HandleRaw decodes a JSON message and dispatches it. Decoding problems come
// back as an error response, never as a Go error.
func (h *Handler) HandleRaw(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.logger.Warn("Malformed message", "error", err)
		return errorResponse(fmt.Errorf("invalid message: %w", err))
	}
	return h.Handle(ctx, req)
}

func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionAutofill:
		return h.autofill(ctx, req)
	default:
		h.logger.Warn("Unknown action", "action", req.Action)
		return errorResponse(fmt.Errorf("%w: %q", entity.ErrUnknownAction, req.Action))
	}
}

func (h *Handler) autofill(ctx context.Context, req Request) Response {
	profile, err := h.profile(ctx, req)
	if err != nil {
		h.logger.Warn("Could not resolve profile", "profileId", req.ProfileID, "error", err)
		return errorResponse(err)
	}

	// Opening and filling share one session: a newer request supersedes this
	// one and navigates only after it has let go of the page.
	ctx, release, err := h.sessions.Begin(ctx, pageSession)
	if err != nil {
		return errorResponse(fmt.Errorf("request cancelled: %w", err))
	}
	defer release()

	page, err := h.pages(ctx, req.URL)
	if err != nil {
		h.logger.Error("Could not open page", "url", req.URL, "error", err)
		return errorResponse(fmt.Errorf("open page: %w", err))
	}

	outcome := h.autofiller.Autofill(ctx, page, *profile)
	resp := Response{
		Success:     outcome.Success,
		FilledCount: outcome.Filled,
		Error:       outcome.Error,
		Outcome:     outcome,
	}

	if outcome.Success {
		h.notify(ctx, page.URL(), profile.ID)
	}
	return resp
}

func (h *Handler) profile(ctx context.Context, req Request) (*entity.Profile, error) {
	if req.Profile != nil {
		p := *req.Profile
		if p.ID == "" {
			p.ID = req.ProfileID
		}
		return &p, nil
	}
	if req.ProfileID == "" {
		return nil, ErrMissingProfile
	}
	if h.tracker == nil {
		return nil, fmt.Errorf("%w: no tracker configured", ErrMissingProfile)
	}
	return h.tracker.Profile(ctx, req.ProfileID)
}

// notify tells the tracker which profile was used. Failures are logged only.
func (h *Handler) notify(ctx context.Context, applyURL, profileID string) {
	if h.tracker == nil || profileID == "" || applyURL == "" {
		return
	}
	if err := h.tracker.NotifyProfileSelection(ctx, applyURL, profileID); err != nil {
		h.logger.Warn("Tracker notification failed", "applyUrl", applyURL, "profileId", profileID, "error", err)
	}
}
