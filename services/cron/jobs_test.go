package cron

import (
	"testing"
)

func TestStudentIDFromCacheKey(t *testing.T) {
	id, ok := studentIDFromCacheKey("transcript:42")
	if !ok || id != 42 {
		t.Errorf("expected (42, true), got (%d, %v)", id, ok)
	}

	// Upload lock keys share the prefix but must never be swept.
	if _, ok := studentIDFromCacheKey("transcript:lock:42"); ok {
		t.Error("lock keys must not parse as student ids")
	}
	if _, ok := studentIDFromCacheKey("transcript:"); ok {
		t.Error("bare prefix must not parse")
	}
}
