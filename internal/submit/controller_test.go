package submit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"growbox_dashboard/internal/api"
	"growbox_dashboard/internal/metrics"
	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Test doubles ----

type stubPoster struct {
	resp  api.TargetResponse
	err   error
	calls []models.TargetUpdateRequest
}

func (p *stubPoster) PostTargets(ctx context.Context, req models.TargetUpdateRequest) (api.TargetResponse, error) {
	p.calls = append(p.calls, req)
	return p.resp, p.err
}

type stubForm struct{ values view.FormValues }

func (f stubForm) FormValues() view.FormValues { return f.values }

// fakeClock hands out timers that fire only when the test advances time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// feedbackLog records the feedback line as the UI would show it.
type feedbackLog struct {
	mu      sync.Mutex
	current Feedback
	history []Feedback
}

func (l *feedbackLog) record(f Feedback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = f
	l.history = append(l.history, f)
}

func (l *feedbackLog) shown() Feedback {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

var defaultForm = view.FormValues{TargetAirHumidity: "60", LightOnTime: "07:00", LightOffTime: "19:00"}

func newTestController(p Poster, form FormReader, clock *fakeClock, m *metrics.Metrics) (*Controller, *feedbackLog) {
	fl := &feedbackLog{}
	c := NewController(p, form, fl.record, nil, Options{
		ClearAfter: DefaultClearAfter,
		AfterFunc:  clock.AfterFunc,
		Metrics:    m,
	})
	return c, fl
}

// ---- Tests ----

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(view.FormValues{TargetAirHumidity: " 55.5 ", LightOnTime: "7:0", LightOffTime: ""})
	require.NoError(t, err)
	assert.Equal(t, models.TargetUpdateRequest{TargetAirHumidity: 55.5, LightOnTime: "7:0", LightOffTime: ""}, req)

	for _, bad := range []string{"", "abc", "NaN", "Inf", "55,5"} {
		_, err := BuildRequest(view.FormValues{TargetAirHumidity: bad})
		assert.ErrorIs(t, err, ErrInvalidHumidity, bad)
	}

	// Out-of-range values are the device's business.
	req, err = BuildRequest(view.FormValues{TargetAirHumidity: "150"})
	require.NoError(t, err)
	assert.Equal(t, 150.0, req.TargetAirHumidity)
}

// Scenario C.
func TestSubmit_SuccessMessageAndSupersededTimer(t *testing.T) {
	clock := &fakeClock{}
	poster := &stubPoster{resp: api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: true, Message: "Alvos atualizados"}}}
	c, fl := newTestController(poster, stubForm{defaultForm}, clock, nil)

	fb := c.Submit(context.Background())
	assert.Equal(t, Feedback{Seq: 1, Kind: KindSuccess, Message: "Alvos atualizados"}, fb)
	assert.Equal(t, fb, fl.shown())
	require.Len(t, poster.calls, 1)
	assert.Equal(t, models.TargetUpdateRequest{TargetAirHumidity: 60, LightOnTime: "07:00", LightOffTime: "19:00"}, poster.calls[0])

	clock.Advance(time.Second)
	poster.resp.Result.Message = "Segundo envio"
	c.Submit(context.Background())
	assert.Equal(t, "Segundo envio", fl.shown().Message)
	assert.Equal(t, 1, clock.active(), "only the latest clear timer may be pending")

	// The first submission's deadline (t=5s) passes: the second message stays.
	clock.Advance(4 * time.Second)
	assert.Equal(t, "Segundo envio", fl.shown().Message)

	// The second submission's deadline (t=6s) clears it.
	clock.Advance(time.Second)
	assert.False(t, fl.shown().Visible())
	assert.Equal(t, uint64(2), fl.shown().Seq)
}

func TestSubmit_ClearsAfterDelay(t *testing.T) {
	clock := &fakeClock{}
	poster := &stubPoster{resp: api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: true}}}
	c, fl := newTestController(poster, stubForm{defaultForm}, clock, nil)

	c.Submit(context.Background())
	assert.Equal(t, MsgSuccess, fl.shown().Message)

	clock.Advance(DefaultClearAfter - time.Millisecond)
	assert.True(t, fl.shown().Visible())
	clock.Advance(time.Millisecond)
	assert.False(t, fl.shown().Visible())

	// Submission start clears, outcome shows, timer clears.
	require.Len(t, fl.history, 3)
	assert.False(t, fl.history[0].Visible())
}

func TestSubmit_OutcomeMapping(t *testing.T) {
	cases := []struct {
		name    string
		resp    api.TargetResponse
		err     error
		kind    Kind
		message string
		outcome string
	}{
		{
			name:    "transport failure",
			err:     errors.New("connection refused"),
			kind:    KindError,
			message: MsgCommunication,
			outcome: metrics.OutcomeFailed,
		},
		{
			name:    "unparseable body",
			err:     api.ErrMalformedBody,
			kind:    KindError,
			message: MsgCommunication,
			outcome: metrics.OutcomeFailed,
		},
		{
			name:    "rejected with message",
			resp:    api.TargetResponse{StatusCode: http.StatusBadRequest, Result: models.TargetUpdateResult{Success: false, Message: "Invalid JSON format"}},
			kind:    KindError,
			message: "Invalid JSON format",
			outcome: metrics.OutcomeRejected,
		},
		{
			name:    "rejected without message",
			resp:    api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: false}},
			kind:    KindError,
			message: MsgFailure,
			outcome: metrics.OutcomeRejected,
		},
		{
			name:    "success flag with error status",
			resp:    api.TargetResponse{StatusCode: http.StatusInternalServerError, Result: models.TargetUpdateResult{Success: true}},
			kind:    KindError,
			message: MsgFailure,
			outcome: metrics.OutcomeRejected,
		},
		{
			name:    "accepted without message",
			resp:    api.TargetResponse{StatusCode: http.StatusCreated, Result: models.TargetUpdateResult{Success: true}},
			kind:    KindSuccess,
			message: MsgSuccess,
			outcome: metrics.OutcomeSuccess,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			c, fl := newTestController(&stubPoster{resp: tc.resp, err: tc.err}, stubForm{defaultForm}, &fakeClock{}, m)

			fb := c.Submit(context.Background())
			assert.Equal(t, tc.kind, fb.Kind)
			assert.Equal(t, tc.message, fb.Message)
			assert.Equal(t, fb, fl.shown())

			want := `
# HELP growbox_target_submissions_total Target submissions, by outcome.
# TYPE growbox_target_submissions_total counter
growbox_target_submissions_total{outcome="` + tc.outcome + `"} 1
`
			assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "growbox_target_submissions_total"))
		})
	}
}

func TestSubmit_InvalidHumiditySkipsRequest(t *testing.T) {
	clock := &fakeClock{}
	poster := &stubPoster{}
	c, fl := newTestController(poster, stubForm{view.FormValues{TargetAirHumidity: "muito", LightOnTime: "07:00"}}, clock, nil)

	fb := c.Submit(context.Background())
	assert.Empty(t, poster.calls)
	assert.Equal(t, Feedback{Seq: 1, Kind: KindError, Message: MsgInvalidHumidity}, fb)
	assert.Equal(t, fb, fl.shown())

	clock.Advance(DefaultClearAfter)
	assert.False(t, fl.shown().Visible())
}

// blockingPoster lets the test decide when each response arrives.
type blockingPoster struct {
	release chan api.TargetResponse
	started chan struct{}
}

func (p *blockingPoster) PostTargets(ctx context.Context, req models.TargetUpdateRequest) (api.TargetResponse, error) {
	p.started <- struct{}{}
	return <-p.release, nil
}

func TestSubmit_LateResponseOfOlderSubmissionIsNotShown(t *testing.T) {
	clock := &fakeClock{}
	poster := &blockingPoster{release: make(chan api.TargetResponse), started: make(chan struct{})}
	c, fl := newTestController(poster, stubForm{defaultForm}, clock, nil)

	first := make(chan Feedback)
	go func() { first <- c.Submit(context.Background()) }()
	<-poster.started

	second := make(chan Feedback)
	go func() { second <- c.Submit(context.Background()) }()
	<-poster.started

	// Whichever request receives this response, the older one gets the stale text.
	poster.release <- api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: true, Message: "primeiro"}}
	poster.release <- api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: true, Message: "segundo"}}
	fb1, fb2 := <-first, <-second

	shown := fl.shown()
	require.True(t, shown.Visible())
	assert.Equal(t, uint64(2), shown.Seq)
	assert.Equal(t, uint64(2), fb2.Seq)
	assert.Equal(t, fb2.Message, shown.Message)
	assert.Equal(t, uint64(1), fb1.Seq)
	assert.NotEqual(t, fb1.Message, shown.Message)
	assert.Equal(t, 1, clock.active())
}

func TestSubmit_DoesNotTouchForm(t *testing.T) {
	r := view.NewReconciler(nil)
	r.ApplyStatusSnapshot(models.DeviceStatusSnapshot{
		Light:      models.LightStatus{OnTime: "08:00", OffTime: "20:00"},
		Humidifier: models.HumidifierStatus{TargetAirHumidity: 55},
	})
	before := r.View()

	poster := &stubPoster{resp: api.TargetResponse{StatusCode: http.StatusOK, Result: models.TargetUpdateResult{Success: true}}}
	c, _ := newTestController(poster, r, &fakeClock{}, nil)
	c.Submit(context.Background())

	assert.Equal(t, before, r.View())
	require.Len(t, poster.calls, 1)
	assert.Equal(t, 55.0, poster.calls[0].TargetAirHumidity)
}

func TestSubmit_NullBodyIsCommunicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	c, fl := newTestController(api.NewClient(srv.URL, srv.Client()), stubForm{defaultForm}, &fakeClock{}, nil)
	fb := c.Submit(context.Background())

	assert.Equal(t, KindError, fb.Kind)
	assert.Equal(t, MsgCommunication, fb.Message)
	assert.Equal(t, fb, fl.shown())
}
