package notification

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
)

// StartRetryCron flushes the outbox every interval until the returned
// scheduler is stopped.
func (o *Outbox) StartRetryCron(ctx context.Context, interval time.Duration) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.Local)
	// a slow SMTP server must not stack up overlapping flushes
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(interval).Do(func() {
		sent, err := o.Flush(ctx)
		if err != nil {
			o.log.Error().Err(err).Msg("outbox flush failed")
			return
		}
		if sent > 0 {
			o.log.Info().Int("sent", sent).Msg("outbox flushed")
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	o.log.Info().Dur("interval", interval).Msg("notification retry cron started")
	return scheduler, nil
}
