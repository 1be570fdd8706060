package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Security.CounsellorTTL != 72*time.Hour {
		t.Errorf("Security.CounsellorTTL = %s, want 72h", cfg.Security.CounsellorTTL)
	}
	if cfg.Security.LoginMaxAttempts != 10 {
		t.Errorf("Security.LoginMaxAttempts = %d, want 10", cfg.Security.LoginMaxAttempts)
	}
	if cfg.Security.LoginWindow != 10*time.Minute {
		t.Errorf("Security.LoginWindow = %s, want 10m", cfg.Security.LoginWindow)
	}
	if cfg.Activity.Stream != "caseboard:activity" {
		t.Errorf("Activity.Stream = %q", cfg.Activity.Stream)
	}
	if cfg.Activity.StreamMaxLen != 10000 {
		t.Errorf("Activity.StreamMaxLen = %d, want 10000", cfg.Activity.StreamMaxLen)
	}
	if cfg.Storage.BucketAttachments != "caseboard-attachments" {
		t.Errorf("Storage.BucketAttachments = %q", cfg.Storage.BucketAttachments)
	}
	if cfg.Security.RefreshTTL != 720*time.Hour {
		t.Errorf("Security.RefreshTTL = %s, want 720h", cfg.Security.RefreshTTL)
	}
}
