package service

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user id = %d, want 42", userID)
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("garbage token accepted")
	}

	// token signed under a different secret
	token, err := GenerateJWT(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	InitJWT("other-secret", time.Hour)
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("token with wrong signature accepted")
	}
}
