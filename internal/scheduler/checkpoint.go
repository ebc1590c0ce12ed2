// Package scheduler periodically checkpoints the screen's instance state so a
// restarted server can restore the last displayed stop list.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

const saveTimeout = 10 * time.Second

// Saver persists the current display text.
type Saver interface {
	SaveInstanceState(ctx context.Context) error
}

type Checkpointer struct {
	saver     Saver
	interval  time.Duration
	scheduler *gocron.Scheduler
}

func NewCheckpointer(saver Saver, interval time.Duration) *Checkpointer {
	return &Checkpointer{
		saver:     saver,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the periodic save. A non-positive interval disables it.
func (c *Checkpointer) Start() error {
	if c.interval <= 0 {
		log.Info().Msg("Instance state checkpoint disabled")
		return nil
	}

	_, err := c.scheduler.Every(c.interval).WaitForSchedule().SingletonMode().Do(c.save)
	if err != nil {
		return fmt.Errorf("scheduling checkpoint: %w", err)
	}

	c.scheduler.StartAsync()
	log.Info().Dur("interval", c.interval).Msg("Instance state checkpoint started")
	return nil
}

// Stop halts the schedule and writes one last checkpoint.
func (c *Checkpointer) Stop() error {
	c.scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := c.saver.SaveInstanceState(ctx); err != nil {
		return fmt.Errorf("final checkpoint: %w", err)
	}
	return nil
}

func (c *Checkpointer) save() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := c.saver.SaveInstanceState(ctx); err != nil {
		log.Error().Err(err).Msg("Instance state checkpoint failed")
		return
	}
	log.Debug().Msg("Instance state checkpointed")
}
