package auth

import (
	"testing"
	"time"

	"aadhaarqms/internal/model"
)

const secret = "test-secret"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "Secret123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := MakeToken("USER_1", "asha@test.com", model.RoleUser, secret, time.Hour)
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := PrincipalFromClaims(claims)
	if err != nil {
		t.Fatalf("principal: %v", err)
	}
	if p.ID != "USER_1" || p.Email != "asha@test.com" || p.Role != model.RoleUser {
		t.Errorf("wrong principal: %+v", p)
	}
	if p.IsAdmin() {
		t.Error("citizen principal reports admin")
	}
}

func TestExpiredToken(t *testing.T) {
	tok, err := MakeToken("USER_1", "asha@test.com", model.RoleUser, secret, -time.Minute)
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if _, err := ParseToken(tok, secret); err == nil {
		t.Error("expired token accepted")
	}
}

func TestWrongSecret(t *testing.T) {
	tok, _ := MakeToken("USER_1", "asha@test.com", model.RoleUser, secret, time.Hour)
	if _, err := ParseToken(tok, "other-secret"); err == nil {
		t.Error("token with wrong secret accepted")
	}
}

func TestUnknownRoleRejected(t *testing.T) {
	tok, _ := MakeToken("X_1", "x@test.com", "superuser", secret, time.Hour)
	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := PrincipalFromClaims(claims); err == nil {
		t.Error("unknown role accepted")
	}
}
