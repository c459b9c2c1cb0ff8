package auth

import (
	"testing"
	"time"

	"workorders/internal/user"
)

func TestIssueAndVerifyToken(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &user.User{ID: 42, Name: "Ada", Role: user.RoleAdmin}

	tok, err := IssueToken("secret", u, now, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, uid, err := VerifyToken(tok, "secret", now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uid != 42 {
		t.Fatalf("expected uid 42, got %d", uid)
	}
	if claims.Role != string(user.RoleAdmin) {
		t.Fatalf("expected role admin, got %q", claims.Role)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &user.User{ID: 7, Role: user.RoleUser}

	tok, err := IssueToken("secret", u, now, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := VerifyToken(tok, "secret", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	now := time.Now()
	u := &user.User{ID: 7, Role: user.RoleUser}

	tok, err := IssueToken("secret", u, now, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := VerifyToken(tok, "other", now); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}
