package main

import (
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/basel-ax/dreamator/internal/app"
)

func runSchedule(cmd *cobra.Command, args []string) error {
	if len(cfg.Schedule.Prompts) == 0 {
		return errors.New("SCHEDULE_PROMPTS is required for scheduled generation")
	}

	ctx, cancel := signalContext()
	defer cancel()

	rt, err := newRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	c := cron.New(cron.WithSeconds())
	var cronMutex sync.Mutex

	_, err = c.AddFunc(cfg.Schedule.Spec, func() {
		log.Info().Msg("[CRON] Attempting to start scheduled generation...")
		cronMutex.Lock()
		defer cronMutex.Unlock()
		log.Info().Msg("[CRON] Running scheduled generation...")
		scheduledGeneration(ctx, rt.controller, cfg.Schedule.Prompts, cfg.Schedule.Model)
		log.Info().Msg("[CRON] Finished scheduled generation.")
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Info().Str("spec", cfg.Schedule.Spec).Int("prompts", len(cfg.Schedule.Prompts)).Msg("Cron scheduler started successfully")

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("Cron scheduler stopped")
	return nil
}

// scheduledGeneration runs one Generate per prompt; failures are logged and
// the remaining prompts still run.
func scheduledGeneration(ctx context.Context, ctl *app.Controller, prompts []string, model string) {
	for _, prompt := range prompts {
		if ctx.Err() != nil {
			return
		}
		images, err := ctl.Generate(ctx, prompt, model)
		if err != nil {
			log.Error().Err(err).Str("prompt", prompt).Msg("Scheduled generation failed")
			continue
		}
		for _, img := range images {
			log.Info().Str("prompt", prompt).Int64("seed", img.Settings.Seed).Str("url", img.URL).Msg("Scheduled image generated")
		}
	}
}
