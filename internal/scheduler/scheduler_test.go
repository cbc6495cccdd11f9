package scheduler

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(discardLogger())
	if err := s.Register("not a cron spec", "x", func() error { return nil }); err == nil {
		t.Error("expected error on malformed spec")
	}
}

func TestRegisterAcceptsEverySpec(t *testing.T) {
	s := New(discardLogger())
	err := s.Register("@every 1m", "expire-messages", func() error { return errors.New("boom") })
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	// A failing sweep only logs; Start/Stop must still cycle cleanly.
	s.Start()
	s.Stop()
}
