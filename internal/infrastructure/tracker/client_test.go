package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesJSON = `[
  {"id": "p-1", "label": "Default", "full_name": "Ada Lovelace", "email": "ada@example.com"},
  {"id": "p-2", "label": "Backend", "full_name": "Grace Hopper", "email": "grace@example.com",
   "location": "Arlington, VA", "autofill_data": {"github": "https://github.com/grace"}}
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(DefaultConfig(srv.URL+"/"), logger.NewNop())
}

func TestProfile_Found(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/profiles", r.URL.Path)
		w.Write([]byte(profilesJSON))
	})

	p, err := c.Profile(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", p.FullName)
	assert.Equal(t, "Arlington, VA", p.Location)
	assert.Equal(t, "https://github.com/grace", p.AutofillData["github"])
}

func TestProfile_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"profiles": ` + profilesJSON + `}`))
	})

	p, err := c.Profile(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestProfile_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(profilesJSON))
	})

	_, err := c.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfile_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database locked", http.StatusServiceUnavailable)
	})

	_, err := c.Profile(context.Background(), "p-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "database locked")
}

func TestNotifyProfileSelection(t *testing.T) {
	var got profileSelection
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/jobs/profile-selection", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status": "recorded"}`))
	})

	err := c.NotifyProfileSelection(context.Background(), "https://jobs.example.com/apply/1", "p-1")
	require.NoError(t, err)
	assert.Equal(t, profileSelection{ApplyURL: "https://jobs.example.com/apply/1", ProfileID: "p-1"}, got)
}

func TestNotifyProfileSelection_Cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "recorded"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.NotifyProfileSelection(ctx, "https://jobs.example.com/apply/1", "p-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProfile_ConcurrentLookupsShareRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(profilesJSON))
	})

	var wg sync.WaitGroup
	names := make([]string, 4)
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.Profile(context.Background(), "p-1")
			if assert.NoError(t, err) {
				names[i] = p.FullName
			}
		}(i)
	}

	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, []string{"Ada Lovelace", "Ada Lovelace", "Ada Lovelace", "Ada Lovelace"}, names)
}

func TestProfile_CancelledCallerDoesNotFailSharedLookup(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte(profilesJSON))
	})

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Profile(firstCtx, "p-1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)

	second := make(chan *entity.Profile, 1)
	go func() {
		p, err := c.Profile(context.Background(), "p-2")
		assert.NoError(t, err)
		second <- p
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	p := <-second
	require.NotNil(t, p)
	assert.Equal(t, "Grace Hopper", p.FullName)
	assert.Equal(t, int32(1), hits.Load())
}
