// Package scheduler keeps the forecast cache warm for a fixed set of
// locations so interactive callers mostly hit cached data.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/bobby-s-dev/meteoblue-client/pkg/meteoblue"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Warmer struct {
	client    *meteoblue.Client
	logger    *zap.Logger
	locations []meteoblue.Coordinate
	packages  []meteoblue.ForecastPackage
	schedule  string
	cron      *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
}

func NewWarmer(client *meteoblue.Client, locations []meteoblue.Coordinate, schedule string, logger *zap.Logger) *Warmer {
	return &Warmer{
		client:    client,
		logger:    logger,
		locations: locations,
		packages:  []meteoblue.ForecastPackage{meteoblue.PackageBasicDay},
		schedule:  schedule,
		cron:      cron.New(),
	}
}

// Start registers the cron entry and runs one warm-up immediately.
func (w *Warmer) Start() error {
	if len(w.locations) == 0 {
		w.logger.Info("No warm locations configured, cache warmer disabled")
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, w.warm); err != nil {
		return err
	}

	w.logger.Info("Cache warmer started",
		zap.String("schedule", w.schedule),
		zap.Int("locations", len(w.locations)))

	go w.warm()
	w.cron.Start()
	return nil
}

func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Cache warmer stopped")
}

func (w *Warmer) LastRun() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun
}

func (w *Warmer) warm() {
	w.mu.Lock()
	w.lastRun = time.Now()
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	for _, coord := range w.locations {
		if _, err := w.client.GetForecast(ctx, coord, w.packages, nil); err != nil {
			w.logger.Warn("Cache warm-up fetch failed",
				zap.Float64("lat", coord.Lat),
				zap.Float64("lon", coord.Lon),
				zap.Error(err))
		}
	}

	w.logger.Info("Cache warm-up completed",
		zap.Int("locations", len(w.locations)),
		zap.Duration("duration", time.Since(start)))
}
