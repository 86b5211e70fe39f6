package service

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatal("wrong password accepted")
	}
}
