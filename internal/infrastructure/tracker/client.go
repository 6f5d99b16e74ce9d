package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"

	"golang.org/x/sync/singleflight"
)

var _ output.TrackerPort = (*Client)(nil)

var ErrProfileNotFound = errors.New("profile not found")

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Client talks to the job tracker API.
type Client struct {
	baseURL string
	http    *http.Client
	lookups singleflight.Group
	logger  output.LoggerPort
}

func NewClient(cfg Config, logger output.LoggerPort) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig("").Timeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Profile looks the profile up in the tracker's profile list. Concurrent
// lookups share one list request, which is bounded by the client timeout
// rather than by any one caller's context.
func (c *Client) Profile(ctx context.Context, id string) (*entity.Profile, error) {
	ch := c.lookups.DoChan("profiles", func() (any, error) {
		var body json.RawMessage
		if err := c.do(context.WithoutCancel(ctx), http.MethodGet, "/api/profiles", nil, &body); err != nil {
			return nil, err
		}
		return decodeProfiles(body)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		c.logger.Debug("Shared profile list request", "profileId", id)
	}

	profiles := res.Val.([]entity.Profile)

	for i := range profiles {
		if profiles[i].ID == id {
			p := profiles[i]
			c.logger.Debug("Loaded profile", "profileId", id, "label", p.Label)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}

type profileSelection struct {
	ApplyURL  string `json:"apply_url"`
	ProfileID string `json:"profile_id"`
}

// NotifyProfileSelection records which profile was used for an application URL.
func (c *Client) NotifyProfileSelection(ctx context.Context, applyURL, profileID string) error {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, "/api/jobs/profile-selection",
		profileSelection{ApplyURL: applyURL, ProfileID: profileID}, &resp)
	if err != nil {
		return err
	}

	c.logger.Info("Profile selection recorded", "applyUrl", applyURL, "profileId", profileID, "status", resp.Status)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tracker %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tracker %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode tracker response: %w", err)
	}
	return nil
}

// decodeProfiles accepts both a bare array and a {"profiles": [...]} envelope.
func decodeProfiles(body json.RawMessage) ([]entity.Profile, error) {
	var list []entity.Profile
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var envelope struct {
		Profiles []entity.Profile `json:"profiles"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	return envelope.Profiles, nil
}
