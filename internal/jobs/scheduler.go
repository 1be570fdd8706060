package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"caseboard/api/internal/config"
	"caseboard/api/internal/repository"
)

// Scheduler runs the housekeeping crons: expired session and reset
// purges, and trimming of the activity mirror stream.
type Scheduler struct {
	cron     *cron.Cron
	cache    *redis.Client
	sessions *repository.SessionRepository
	resets   *repository.ResetRepository
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewScheduler(cache *redis.Client, sessions *repository.SessionRepository, resets *repository.ResetRepository, cfg *config.AppConfig, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:     c,
		cache:    cache,
		sessions: sessions,
		resets:   resets,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeExpired); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.trimActivityStream); err != nil { // hourly trim
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron and waits for in-flight jobs to finish, bounded so
// shutdown cannot hang on a stuck purge.
func (s *Scheduler) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpired() {
	if s.sessions == nil || s.resets == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if n, err := s.sessions.PurgeExpired(ctx); err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
	} else if n > 0 {
		s.log.Info().Int64("count", n).Msg("purged expired sessions")
	}

	if n, err := s.resets.PurgeExpired(ctx); err != nil {
		s.log.Error().Err(err).Msg("reset purge failed")
	} else if n > 0 {
		s.log.Info().Int64("count", n).Msg("purged expired password resets")
	}
}

func (s *Scheduler) trimActivityStream() {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.cache.XTrimMaxLenApprox(ctx, s.cfg.Activity.Stream, s.cfg.Activity.StreamMaxLen, 0).Err(); err != nil {
		s.log.Error().Err(err).Msg("activity stream trim failed")
	}
}
