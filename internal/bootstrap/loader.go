package bootstrap

import (
	"context"
	"sync"

	"growbox_dashboard/internal/logger"
	"growbox_dashboard/internal/metrics"
	"growbox_dashboard/internal/models"
)

// Fetcher performs the one-shot snapshot requests.
type Fetcher interface {
	FetchSensors(ctx context.Context) (models.SensorSnapshot, error)
	FetchStatus(ctx context.Context) (models.DeviceStatusSnapshot, error)
}

// Sink receives decoded snapshots.
type Sink interface {
	ApplySensorSnapshot(models.SensorSnapshot)
	ApplyStatusSnapshot(models.DeviceStatusSnapshot)
}

// Loader fetches the initial sensors and status snapshots.
type Loader struct {
	fetcher Fetcher
	sink    Sink
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewLoader(fetcher Fetcher, sink Sink, log *logger.Logger, m *metrics.Metrics) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{fetcher: fetcher, sink: sink, log: log, metrics: m}
}

// Load issues both fetches concurrently and returns once both have settled.
// A failed fetch is logged and forwards nothing; it never affects the other.
// There is no retry: the push stream brings the view up to date.
func (l *Loader) Load(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		l.loadSensors(ctx)
	}()
	go func() {
		defer wg.Done()
		l.loadStatus(ctx)
	}()
	wg.Wait()
}

func (l *Loader) loadSensors(ctx context.Context) {
	s, err := l.fetcher.FetchSensors(ctx)
	if err != nil {
		l.log.Errorw("bootstrap_sensors_failed", "err", err)
		l.metrics.BootstrapFailure(metrics.KindSensors)
		return
	}
	l.sink.ApplySensorSnapshot(s)
}

func (l *Loader) loadStatus(ctx context.Context) {
	d, err := l.fetcher.FetchStatus(ctx)
	if err != nil {
		l.log.Errorw("bootstrap_status_failed", "err", err)
		l.metrics.BootstrapFailure(metrics.KindStatus)
		return
	}
	l.sink.ApplyStatusSnapshot(d)
}
