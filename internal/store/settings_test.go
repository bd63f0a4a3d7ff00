package store

import (
	"context"
	"testing"

	"github.com/repurpose/repurpose/internal/db"
)

func TestEnsureJWTSecretStable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := EnsureJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("EnsureJWTSecret: %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty secret")
	}

	second, err := EnsureJWTSecret(ctx, database)
	if err != nil {
		t.Fatalf("EnsureJWTSecret: %v", err)
	}
	if second != first {
		t.Error("expected the same secret on repeated calls")
	}
}
