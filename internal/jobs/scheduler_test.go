package jobs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"caseboard/api/internal/config"
)

func TestStopWaitsForCronAndReturns(t *testing.T) {
	s := NewScheduler(nil, nil, nil, &config.AppConfig{}, zerolog.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after idle cron shutdown")
	}
}
