package auth

import (
	"testing"
	"time"
)

func newTestRateLimiter(max int) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     max,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // Long interval to prevent cleanup during test
	})
}

func TestRateLimiter_AllowsInitialAttempts(t *testing.T) {
	rl := newTestRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1", "frank")
		if !allowed {
			t.Errorf("Attempt %d should be allowed", i+1)
		}
		rl.RecordFailure("192.168.1.1", "frank")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1", "frank")
	if allowed {
		t.Error("4th attempt should be blocked")
	}
	if retryAfter == 0 {
		t.Error("retryAfter should be non-zero when blocked")
	}
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := newTestRateLimiter(3)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "frank")
	rl.RecordFailure("192.168.1.1", "frank")
	rl.RecordSuccess("192.168.1.1", "frank")

	if allowed, _ := rl.Allow("192.168.1.1", "frank"); !allowed {
		t.Error("Should be allowed after successful login")
	}
}

func TestRateLimiter_DifferentUsersAreIndependent(t *testing.T) {
	rl := newTestRateLimiter(2)
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "frank")
	rl.RecordFailure("192.168.1.1", "frank")

	if allowed, _ := rl.Allow("192.168.1.1", "frank"); allowed {
		t.Error("frank should be locked out")
	}
	if allowed, _ := rl.Allow("192.168.1.1", "alice"); !allowed {
		t.Error("alice should not be affected by frank's failures")
	}
	if allowed, _ := rl.Allow("10.0.0.1", "frank"); !allowed {
		t.Error("another IP should not be affected")
	}
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	rl := newTestRateLimiter(2)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.RecordFailure("192.168.1.1", "frank")
	if locked, _ := rl.RecordFailure("192.168.1.1", "frank"); !locked {
		t.Fatal("second failure should lock")
	}

	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	if allowed, _ := rl.Allow("192.168.1.1", "frank"); !allowed {
		t.Error("lockout should have expired")
	}
	if locked, _ := rl.RecordFailure("192.168.1.1", "frank"); locked {
		t.Error("a failure after the lockout starts a fresh window")
	}
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := newTestRateLimiter(1)
	rl.Stop()
	rl.Stop()
}
