package auth

import (
	"testing"

	"github.com/repurpose/repurpose/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &model.User{ID: 42, Name: "Alice", Role: model.RoleNGO}

	token, err := GenerateToken("secret", user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	principal, err := claims.Principal()
	if err != nil {
		t.Fatalf("Principal: %v", err)
	}
	if principal.ID != 42 || principal.Name != "Alice" || principal.Role != model.RoleNGO {
		t.Errorf("unexpected principal: %+v", principal)
	}
	if claims.ID == "" {
		t.Error("expected non-empty JTI")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	user := &model.User{ID: 1, Name: "Bob", Role: model.RoleIndividual}

	token, err := GenerateToken("secret", user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestClaimsUnknownRole(t *testing.T) {
	claims := &Claims{UserID: 1, Name: "Eve", Role: "superuser"}
	if _, err := claims.Principal(); err == nil {
		t.Error("expected error for unknown role")
	}
}
