package live

import (
	"context"

	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/metrics"
	"growbox_dashboard/internal/models"
)

// Sink receives decoded snapshots.
type Sink interface {
	ApplySensorSnapshot(models.SensorSnapshot)
	ApplyStatusSnapshot(models.DeviceStatusSnapshot)
}

// Subscriber routes push events from a Stream into a Sink.
type Subscriber struct {
	stream  Stream
	sink    Sink
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewSubscriber(stream Stream, sink Sink, log *logger.Logger, m *metrics.Metrics) *Subscriber {
	if log == nil {
		log = logger.Nop()
	}
	return &Subscriber{stream: stream, sink: sink, log: log, metrics: m}
}

// Run consumes the stream until ctx is done. Reconnection belongs to the stream.
func (s *Subscriber) Run(ctx context.Context) error {
	return s.stream.Run(ctx, s.handle, s.connectionError)
}

func (s *Subscriber) handle(ev Event) {
	switch ev.Type {
	case KindSensorUpdate:
		snap, err := models.DecodeSensorSnapshot(ev.Data)
		if err != nil {
			s.drop(metrics.KindSensors, ev, err)
			return
		}
		s.metrics.PushEvent(metrics.KindSensors)
		s.sink.ApplySensorSnapshot(snap)
	case KindStatusUpdate:
		snap, err := models.DecodeStatusSnapshot(ev.Data)
		if err != nil {
			s.drop(metrics.KindStatus, ev, err)
			return
		}
		s.metrics.PushEvent(metrics.KindStatus)
		s.sink.ApplyStatusSnapshot(snap)
	default:
		s.log.Debugw("push_event_ignored", "type", ev.Type)
	}
}

func (s *Subscriber) drop(kind string, ev Event, err error) {
	s.log.Warnw("push_payload_malformed", "type", ev.Type, "id", ev.ID, "err", err)
	s.metrics.PushDropped(kind)
}

func (s *Subscriber) connectionError(err error) {
	s.log.Warnw("push_connection_error", "err", err)
	s.metrics.PushConnectionError()
}
