package submit

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"growbox_dashboard/internal/api"
	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/metrics"
	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/view"
)

// ErrInvalidHumidity is returned by BuildRequest when the humidity target is not a number.
var ErrInvalidHumidity = errors.New("target air humidity is not a number")

// Poster sends a target update to the device.
type Poster interface {
	PostTargets(ctx context.Context, req models.TargetUpdateRequest) (api.TargetResponse, error)
}

// FormReader exposes the current form contents.
type FormReader interface {
	FormValues() view.FormValues
}

// Options tune a Controller. Zero values select defaults.
type Options struct {
	ClearAfter time.Duration
	AfterFunc  AfterFunc
	Metrics    *metrics.Metrics
}

// Controller submits operator targets and manages the transient feedback line.
// It only reads the form; confirmation of accepted values arrives through the
// next status push.
type Controller struct {
	poster     Poster
	form       FormReader
	onFeedback FeedbackFunc
	log        *logger.Logger
	metrics    *metrics.Metrics
	clearAfter time.Duration
	afterFunc  AfterFunc

	mu      sync.Mutex
	seq     uint64 // latest submission
	pending Timer  // clear timer of the latest submission
}

// NewController wires a controller. onFeedback may be nil; it is called
// with the controller's lock held and must not call back into the controller.
func NewController(poster Poster, form FormReader, onFeedback FeedbackFunc, log *logger.Logger, opts Options) *Controller {
	if opts.ClearAfter <= 0 {
		opts.ClearAfter = DefaultClearAfter
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if onFeedback == nil {
		onFeedback = func(Feedback) {}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		poster:     poster,
		form:       form,
		onFeedback: onFeedback,
		log:        log,
		metrics:    opts.Metrics,
		clearAfter: opts.ClearAfter,
		afterFunc:  opts.AfterFunc,
	}
}

// BuildRequest converts raw form values into a request. Only the humidity
// target is parsed; range and time-format checks belong to the device.
func BuildRequest(v view.FormValues) (models.TargetUpdateRequest, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(v.TargetAirHumidity), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return models.TargetUpdateRequest{}, ErrInvalidHumidity
	}
	return models.TargetUpdateRequest{
		TargetAirHumidity: h,
		LightOnTime:       v.LightOnTime,
		LightOffTime:      v.LightOffTime,
	}, nil
}

// Submit posts the current form values and publishes the outcome. It blocks
// until the device answers or ctx ends, and returns the feedback it produced.
func (c *Controller) Submit(ctx context.Context) Feedback {
	seq := c.begin()

	req, err := BuildRequest(c.form.FormValues())
	if err != nil {
		c.log.Infow("targets_invalid_input", "err", err)
		c.metrics.Submission(metrics.OutcomeInvalid)
		return c.finish(seq, Feedback{Seq: seq, Kind: KindError, Message: MsgInvalidHumidity})
	}

	resp, err := c.poster.PostTargets(ctx, req)
	fb := c.classify(seq, resp, err)
	return c.finish(seq, fb)
}

// begin starts a new submission: it supersedes the previous clear timer and
// clears the feedback line.
func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.onFeedback(Feedback{Seq: c.seq})
	return c.seq
}

func (c *Controller) classify(seq uint64, resp api.TargetResponse, err error) Feedback {
	switch {
	case err != nil:
		c.log.Errorw("targets_submit_failed", "err", err)
		c.metrics.Submission(metrics.OutcomeFailed)
		return Feedback{Seq: seq, Kind: KindError, Message: MsgCommunication}
	case resp.OK() && resp.Result.Success:
		c.log.Infow("targets_submitted", "status", resp.StatusCode)
		c.metrics.Submission(metrics.OutcomeSuccess)
		return Feedback{Seq: seq, Kind: KindSuccess, Message: orDefault(resp.Result.Message, MsgSuccess)}
	default:
		c.log.Warnw("targets_rejected", "status", resp.StatusCode, "message", resp.Result.Message)
		c.metrics.Submission(metrics.OutcomeRejected)
		return Feedback{Seq: seq, Kind: KindError, Message: orDefault(resp.Result.Message, MsgFailure)}
	}
}

// finish shows fb and arms the clear timer, unless a newer submission has
// started in the meantime.
func (c *Controller) finish(seq uint64, fb Feedback) Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Infow("targets_outcome_superseded", "seq", seq, "message", fb.Message)
		return fb
	}
	c.onFeedback(fb)
	c.pending = c.afterFunc(c.clearAfter, func() { c.clear(seq) })
	return fb
}

// clear hides the feedback of submission seq if it is still the latest.
func (c *Controller) clear(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.pending = nil
	c.onFeedback(Feedback{Seq: seq})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
