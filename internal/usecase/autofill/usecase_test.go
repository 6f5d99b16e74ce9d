package autofill

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"autofill-agent/internal/domain/entity"
	"autofill-agent/internal/domain/patterns"
	"autofill-agent/internal/infrastructure/logger"
	"autofill-agent/internal/infrastructure/page/htmldom"
	"autofill-agent/internal/usecase/classifier"
	"autofill-agent/internal/usecase/dropdown"
	"autofill-agent/internal/usecase/filler"
	"autofill-agent/internal/usecase/timing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder is a SleepFunc that records every wait and can run an action on
// the nth call.
type recorder struct {
	mu     sync.Mutex
	waits  []time.Duration
	onCall map[int]func()
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	action := r.onCall[len(r.waits)]
	r.mu.Unlock()
	if action != nil {
		action()
	}
	return ctx.Err()
}

func (r *recorder) count(d time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.waits {
		if w == d {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{AsyncMaxAttempts: 3, RetryDelay: 1500 * time.Millisecond, ValidationDelay: 250 * time.Millisecond}
}

func newUseCase(sleep timing.SleepFunc) *UseCase {
	table := patterns.Default()
	log := logger.NewNop()
	return New(
		testConfig(),
		classifier.New(table, log),
		filler.New(filler.DefaultConfig(), log, filler.WithSleep(timing.NoSleep)),
		dropdown.New(dropdown.DefaultConfig(), table, log, dropdown.WithSleep(timing.NoSleep)),
		log,
		WithSleep(sleep),
	)
}

func parse(t *testing.T, url, src string, opts ...htmldom.Option) *htmldom.Page {
	t.Helper()
	p, err := htmldom.Parse(url, src, opts...)
	require.NoError(t, err)
	return p
}

func valueOf(t *testing.T, p *htmldom.Page, id string) string {
	t.Helper()
	el := p.ByID(id)
	require.NotNil(t, el, id)
	v, err := el.Value(context.Background())
	require.NoError(t, err)
	return v
}

func TestAutofill_FullNameSplitIntoFirstAndLast(t *testing.T) {
	rec := &recorder{}
	page := parse(t, "https://careers.example.com/apply", NameEmailHTML)

	out := newUseCase(rec.sleep).Autofill(context.Background(), page, entity.Profile{FullName: "Ada Lovelace", Email: "ada@x.com"})

	require.NotNil(t, out)
	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Filled)
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 1, out.Attempts)
	assert.Empty(t, out.Error)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, "generic", out.Site)

	assert.Equal(t, "Ada", valueOf(t, page, "first"))
	assert.Equal(t, "Lovelace", valueOf(t, page, "last"))
	assert.Equal(t, "ada@x.com", valueOf(t, page, "email"))

	// Validation replay: one wait, a focus/input/blur per field, one neutral click.
	assert.Equal(t, 1, rec.count(250*time.Millisecond))
	assert.Equal(t, 1, page.NeutralClicks())
	types := page.EventTypes(page.ByID("email").Ref())
	assert.Equal(t, []entity.EventType{entity.EventFocus, entity.EventInput, entity.EventBlur}, types[len(types)-3:])
}

func TestAutofill_NoInputs(t *testing.T) {
	rec := &recorder{}
	page := parse(t, "https://careers.example.com/apply", NoInputsHTML)

	out := newUseCase(rec.sleep).Autofill(context.Background(), page, entity.Profile{FullName: "Ada Lovelace"})

	assert.False(t, out.Success)
	assert.Zero(t, out.Filled)
	assert.Equal(t, entity.NoFieldsMessage, out.Error)
	assert.Equal(t, 1, out.Attempts)
	assert.Zero(t, page.NeutralClicks())
	assert.Empty(t, rec.waits)
}

func TestAutofill_RetryBudget(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    int
		retries int
	}{
		{"async site", "https://acme.wd1.myworkdayjobs.com/careers/apply", 3, 2},
		{"greenhouse", "https://boards.greenhouse.io/acme/jobs/1", 1, 0},
		{"generic", "https://careers.example.com/apply", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			page := parse(t, tt.url, NoInputsHTML)

			out := newUseCase(rec.sleep).Autofill(context.Background(), page, entity.Profile{Email: "ada@x.com"})

			assert.Equal(t, tt.want, out.Attempts)
			assert.Equal(t, tt.retries, rec.count(1500*time.Millisecond))
			assert.Equal(t, entity.NoFieldsMessage, out.Error)
		})
	}
}

func TestAutofill_AsyncFormAppearsOnRetry(t *testing.T) {
	rec := &recorder{}
	page := parse(t, "https://acme.wd1.myworkdayjobs.com/careers/apply", NoInputsHTML,
		htmldom.WithHooks(htmldom.Hooks{
			OnEvent: func(p *htmldom.Page, ref string, ev entity.Event) {
				trigger := p.ByID("wd-device")
				if trigger != nil && ref == trigger.Ref() && ev.Type == entity.EventClick {
					_ = p.AppendToBody(DeviceOptions)
				}
			},
		}),
	)
	rec.onCall = map[int]func(){
		2: func() { require.NoError(t, page.AppendToBody(LateForm)) },
	}

	out := newUseCase(rec.sleep).Autofill(context.Background(), page, entity.Profile{FullName: "Ada Lovelace"})

	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 2, out.Filled)
	assert.Equal(t, "Ada", valueOf(t, page, "wd-first"))
	assert.Equal(t, entity.HoverClickSequence, page.EventTypes(page.ByID("opt-mobile").Ref()))
	assert.Equal(t, 2, rec.count(1500*time.Millisecond))
}

func TestAutofill_FullForm(t *testing.T) {
	page := parse(t, "https://careers.example.com/apply", FullFormHTML)

	out := newUseCase(timing.NoSleep).Autofill(context.Background(), page, entity.Profile{
		FullName: "Ada Lovelace",
		Email:    "ada@x.com",
		Phone:    "555-0100",
		State:    "CA",
		LinkedIn: "https://linkedin.com/in/ada",
		Website:  "https://ada.dev",
	})

	assert.True(t, out.Success)
	assert.Equal(t, 6, out.Filled)
	assert.Equal(t, "Ada Lovelace", valueOf(t, page, "fullname"))
	assert.Equal(t, "555-0100", valueOf(t, page, "phone"))
	assert.Empty(t, valueOf(t, page, "ext"))
	assert.Empty(t, page.EventTypes(page.ByID("ext").Ref()))
	assert.Equal(t, "California", valueOf(t, page, "state"))
	assert.Equal(t, "https://linkedin.com/in/ada", valueOf(t, page, "linkedin"))
	assert.Equal(t, "https://ada.dev", valueOf(t, page, "website"))

	for _, f := range out.Fields {
		assert.True(t, f.Success, f.Tag)
		assert.NotEqual(t, entity.FieldPhoneExtension, f.Tag)
	}
}

func TestAutofill_IdempotentReinvocation(t *testing.T) {
	page := parse(t, "https://careers.example.com/apply", NameEmailHTML)
	uc := newUseCase(timing.NoSleep)
	ctx := context.Background()

	first := uc.Autofill(ctx, page, entity.Profile{FullName: "Ada Lovelace", Email: "ada@x.com"})
	require.Equal(t, 3, first.Filled)
	eventsAfterFirst := len(page.Events())

	second := uc.Autofill(ctx, page, entity.Profile{FullName: "Grace Hopper", Email: "grace@x.com"})

	assert.Zero(t, second.Attempted)
	assert.Equal(t, entity.NoFieldsMessage, second.Error)
	assert.Equal(t, "Ada", valueOf(t, page, "first"))
	assert.Equal(t, "ada@x.com", valueOf(t, page, "email"))
	assert.Len(t, page.Events(), eventsAfterFirst)
	assert.NotEqual(t, first.RequestID, second.RequestID)
}

func TestAutofill_FieldFailureDoesNotStopBatch(t *testing.T) {
	var first string
	page := parse(t, "https://careers.example.com/apply", NameEmailHTML,
		htmldom.WithHooks(htmldom.Hooks{
			FilterValue: func(ref, value string, _ entity.EventType) string {
				if ref == first {
					return ""
				}
				return value
			},
		}),
	)
	first = page.ByID("first").Ref()

	out := newUseCase(timing.NoSleep).Autofill(context.Background(), page, entity.Profile{FullName: "Ada Lovelace", Email: "ada@x.com"})

	assert.True(t, out.Success)
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 2, out.Filled)
	for _, f := range out.Fields {
		if f.Ref == first {
			assert.False(t, f.Success)
			assert.Contains(t, f.Reason, "field write failed")
		}
	}
}

func TestAutofill_SupersededRequestIsCancelled(t *testing.T) {
	page := parse(t, "https://acme.wd1.myworkdayjobs.com/careers/apply", NoInputsHTML)

	blocked := make(chan struct{})
	var once sync.Once
	sleep := func(ctx context.Context, d time.Duration) error {
		first := false
		once.Do(func() { first = true })
		if first {
			close(blocked)
			<-ctx.Done()
		}
		return ctx.Err()
	}
	uc := newUseCase(sleep)

	result := make(chan *entity.FillOutcome, 1)
	go func() {
		result <- uc.Autofill(context.Background(), page, entity.Profile{Email: "ada@x.com"})
	}()
	<-blocked

	second := uc.Autofill(context.Background(), page, entity.Profile{Email: "ada@x.com"})

	var first *entity.FillOutcome
	select {
	case first = <-result:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request did not return")
	}
	assert.False(t, first.Success)
	assert.Equal(t, entity.ErrSuperseded.Error(), first.Error)
	assert.Equal(t, 1, first.Attempts)

	assert.Equal(t, 3, second.Attempts)
	assert.Equal(t, entity.NoFieldsMessage, second.Error)
}

func TestAutofill_CancelledContext(t *testing.T) {
	page := parse(t, "https://careers.example.com/apply", NameEmailHTML)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newUseCase(timing.NoSleep).Autofill(ctx, page, entity.Profile{FullName: "Ada Lovelace"})

	require.NotNil(t, out)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "cancelled")
	assert.Equal(t, "", valueOf(t, page, "first"))
}

func TestAutofill_NativeSelectWithoutPlaceholder(t *testing.T) {
	page := parse(t, "https://careers.example.com/apply", StateNoPlaceholderHTML)
	uc := newUseCase(timing.NoSleep)

	out := uc.Autofill(context.Background(), page, entity.Profile{State: "CA"})

	assert.True(t, out.Success)
	assert.Equal(t, 1, out.Filled)
	assert.Equal(t, "CA", valueOf(t, page, "state"))

	// Once chosen, the selection counts as a value and is left alone.
	again := uc.Autofill(context.Background(), page, entity.Profile{State: "AZ"})
	assert.Zero(t, again.Attempted)
	assert.Equal(t, "CA", valueOf(t, page, "state"))
}
