package convert

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicy_Do(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name       string
		policy     RetryPolicy
		failures   int
		wantCalls  int
		wantPauses int
		wantErr    bool
	}{
		{"first try", RetryPolicy{Attempts: 5, Delay: time.Second}, 0, 1, 0, false},
		{"recovers", RetryPolicy{Attempts: 5, Delay: time.Second}, 4, 5, 4, false},
		{"exhausted", RetryPolicy{Attempts: 5, Delay: time.Second}, 10, 5, 4, true},
		{"single attempt", RetryPolicy{Attempts: 1}, 10, 1, 0, true},
		{"zero attempts runs once", RetryPolicy{}, 10, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			sleeps := &recordedSleeps{}

			err := tt.policy.do(context.Background(), quietLogger(), "test", sleeps.sleep, func() error {
				calls++
				if calls <= tt.failures {
					return boom
				}
				return nil
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, boom) {
				t.Errorf("expected last error to be returned, got %v", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if len(sleeps.delays) != tt.wantPauses {
				t.Errorf("pauses = %d, want %d", len(sleeps.delays), tt.wantPauses)
			}
			for _, d := range sleeps.delays {
				if d != tt.policy.Delay {
					t.Errorf("pause = %v, want %v", d, tt.policy.Delay)
				}
			}
		})
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	if DefaultRetryPolicy.Attempts != 5 || DefaultRetryPolicy.Delay != 2*time.Second {
		t.Errorf("DefaultRetryPolicy = %+v, want 5 attempts with 2s delay", DefaultRetryPolicy)
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
