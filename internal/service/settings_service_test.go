package service

import "testing"

func TestIPAllowed(t *testing.T) {
	allowlist := []string{"10.0.0.1", "192.168.1.20"}

	if !IPAllowed("10.0.0.1", allowlist) {
		t.Error("listed ip should be allowed")
	}
	if IPAllowed("10.0.0.2", allowlist) {
		t.Error("unlisted ip should be rejected")
	}
	if !IPAllowed("203.0.113.9", nil) {
		t.Error("empty allowlist should allow every ip")
	}
	if !IPAllowed("203.0.113.9", []string{}) {
		t.Error("zero-length allowlist should allow every ip")
	}
}
