package request

import (
	"testing"
	"time"
)

func TestProviderBackoff_ExponentialDelay(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		baseDelay time.Duration
		maxDelay  time.Duration
		wantMinMs int64
		wantMaxMs int64
	}{
		{"First failure", 1, 1 * time.Second, 60 * time.Second, 900, 1200},
		{"Second failure", 2, 1 * time.Second, 60 * time.Second, 1900, 2400},
		{"Third failure", 3, 1 * time.Second, 60 * time.Second, 3900, 4800},
		{"Max cap hit", 10, 1 * time.Second, 60 * time.Second, 59000, 66000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewProviderBackoff(tt.baseDelay, tt.maxDelay)

			for i := 0; i < tt.failures; i++ {
				b.RecordFailure("test-provider")
			}

			fc, nextAllowed := b.GetState("test-provider")
			if fc != tt.failures {
				t.Errorf("failureCount = %d, want %d", fc, tt.failures)
			}

			delayMs := time.Until(nextAllowed).Milliseconds()

			// Allow some tolerance for jitter and timing
			if delayMs < tt.wantMinMs || delayMs > tt.wantMaxMs {
				t.Errorf("delay = %dms, want between %dms and %dms", delayMs, tt.wantMinMs, tt.wantMaxMs)
			}
		})
	}
}

func TestProviderBackoff_GradualRecovery(t *testing.T) {
	b := NewProviderBackoff(1*time.Second, 60*time.Second)

	b.RecordFailure("p")
	b.RecordFailure("p")
	b.RecordSuccess("p")

	fc, _ := b.GetState("p")
	if fc != 1 {
		t.Errorf("failureCount after recovery = %d, want 1", fc)
	}

	b.RecordSuccess("p")
	fc, next := b.GetState("p")
	if fc != 0 {
		t.Errorf("failureCount = %d, want 0", fc)
	}
	if !next.IsZero() {
		t.Error("Expected backoff cleared after full recovery")
	}
}

func TestProviderBackoff_WaitWithoutState(t *testing.T) {
	b := NewProviderBackoff(time.Second, time.Minute)

	start := time.Now()
	b.Wait("never-seen")
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Wait on unknown provider blocked for %v", elapsed)
	}
}

func TestProviderBackoff_Isolation(t *testing.T) {
	b := NewProviderBackoff(time.Second, time.Minute)
	b.RecordFailure("nominatim")

	if fc, _ := b.GetState("osrm"); fc != 0 {
		t.Error("Failure on one provider must not affect another")
	}
}
