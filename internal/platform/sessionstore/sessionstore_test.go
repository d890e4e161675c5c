package sessionstore

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRevocations(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryRevocations()
	m.now = func() time.Time { return now }

	if err := m.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if ok, _ := m.IsRevoked(ctx, "jti-1"); !ok {
		t.Fatalf("jti-1 should be revoked")
	}
	if ok, _ := m.IsRevoked(ctx, "jti-2"); ok {
		t.Fatalf("jti-2 was never revoked")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := m.IsRevoked(ctx, "jti-1"); ok {
		t.Fatalf("revocation should lapse once the token has expired")
	}
}

func TestMemoryRevocationsIgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevocations()
	if err := m.Revoke(ctx, "old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if len(m.revoked) != 0 {
		t.Fatalf("expired token should not be stored, have %d entries", len(m.revoked))
	}
	if err := m.Revoke(ctx, "", time.Now().Add(time.Minute)); err == nil {
		t.Fatalf("empty token id should be rejected")
	}
}
