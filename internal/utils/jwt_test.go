package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "MEMBER", 7, 15)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	if time.Until(tok.Exp) <= 0 {
		t.Fatalf("token already expired: %v", tok.Exp)
	}

	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("sub = %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "MEMBER" {
		t.Errorf("role = %v, want MEMBER", claims["role"])
	}
	if uni, _ := claims["university_id"].(float64); uint64(uni) != 7 {
		t.Errorf("university_id = %v, want 7", claims["university_id"])
	}

	if _, err := ParseAccessToken("wrong-secret", tok.Token); err == nil {
		t.Errorf("ParseAccessToken() with wrong secret should fail")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken() error = %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("raw token length = %d, want 96", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Errorf("hash must be deterministic")
	}
	other, _ := NewRefreshToken(30)
	if rt.Raw == other.Raw {
		t.Errorf("two refresh tokens must not collide")
	}
}
