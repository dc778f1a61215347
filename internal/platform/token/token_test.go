package token_test

import (
	"errors"
	"testing"
	"time"

	memclock "github.com/cityplay/activity-booking-api/internal/adapters/memory/clock"
	"github.com/cityplay/activity-booking-api/internal/platform/token"
)

func TestIssueResolveRoundTrip(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := token.New("test-secret", 0, clk)

	raw, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := svc.Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("resolved user = %q, want %q", id, "user-1")
	}
}

func TestTokenValidBeforeExpiry(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := token.New("test-secret", 0, clk)

	raw, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.Advance(6 * 24 * time.Hour)
	if _, err := svc.Resolve(raw); err != nil {
		t.Fatalf("Resolve at +6d: %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := token.New("test-secret", 0, clk)

	raw, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.Advance(8 * 24 * time.Hour)
	_, err = svc.Resolve(raw)
	if !errors.Is(err, token.ErrTokenExpired) {
		t.Fatalf("Resolve at +8d: err = %v, want ErrTokenExpired", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	issuer := token.New("secret-a", 0, clk)
	resolver := token.New("secret-b", 0, clk)

	raw, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = resolver.Resolve(raw)
	if !errors.Is(err, token.ErrTokenInvalid) {
		t.Fatalf("Resolve with wrong secret: err = %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := token.New("test-secret", 0, clk)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Resolve(raw); !errors.Is(err, token.ErrTokenInvalid) {
			t.Fatalf("Resolve(%q): err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}
