package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autofill-agent/internal/adapter/message"
	"autofill-agent/internal/application/port/output"
	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/infrastructure/logger"
	"autofill-agent/internal/infrastructure/page/htmldom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formHTML = `<html><body>
	<input name="first-name" />
	<input name="last-name" />
	<input name="email" type="email" />
</body></html>`

// stubAutofiller reports one filled field per non-empty profile email.
type stubAutofiller struct {
	got []entity.Profile
}

func (s *stubAutofiller) Autofill(_ context.Context, _ output.PageModel, p entity.Profile) *entity.FillOutcome {
	s.got = append(s.got, p)
	o := &entity.FillOutcome{Attempts: 1}
	if p.Email != "" {
		o.Record(entity.FieldResult{Ref: "n3", Tag: entity.FieldEmail, Capability: entity.CapabilityText, Success: true})
	}
	o.Finish()
	return o
}

func newTestServer(t *testing.T, af *stubAutofiller) *httptest.Server {
	t.Helper()
	pages := func(_ context.Context, url string) (output.PageModel, error) {
		return htmldom.Parse("https://jobs.example.com/apply", formHTML)
	}
	h := message.NewHandler(af, pages, logger.NewNop())

	cfg := DefaultConfig()
	cfg.AccessLog = false
	srv := httptest.NewServer(NewServer(cfg, h, logger.NewNop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, message.Response) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out message.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAutofill(t *testing.T) {
	af := &stubAutofiller{}
	srv := newTestServer(t, af)

	resp, out := post(t, srv.URL+"/api/autofill", `{"profile": {"email": "ada@x.com"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.True(t, out.Success)
	assert.Equal(t, 1, out.FilledCount)
	require.Len(t, af.got, 1)
	assert.Equal(t, "ada@x.com", af.got[0].Email)
}

func TestAutofill_NothingFilled(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, out := post(t, srv.URL+"/api/autofill", `{"profile": {"full_name": "Ada"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, entity.NoFieldsMessage, out.Error)
}

func TestAutofill_BadJSON(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, out := post(t, srv.URL+"/api/autofill", `{"profile":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out.Error, "invalid request")
}

func TestAutofill_MissingProfile(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, out := post(t, srv.URL+"/api/autofill", `{}`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, out.Error, message.ErrMissingProfile.Error())
}

func TestMessage_UnknownAction(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, out := post(t, srv.URL+"/api/message", `{"action": "submit"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, entity.ErrUnknownAction.Error())
}

func TestMessage_Autofill(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, out := post(t, srv.URL+"/api/message", `{"action": "autofill", "profile": {"email": "ada@x.com"}}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
}

func TestAutofill_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubAutofiller{})

	resp, err := http.Get(srv.URL + "/api/autofill")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	cfg := DefaultConfig()
	cfg.Addr = addr
	cfg.AccessLog = false
	h := message.NewHandler(&stubAutofiller{}, nil, logger.NewNop())
	s := NewServer(cfg, h, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
