package auth

import "testing"

func TestHashAndCheckAPIKey(t *testing.T) {
	hash, err := HashAPIKey("sekrit-key-material")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "sekrit-key-material" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckAPIKey("sekrit-key-material", hash) {
		t.Fatal("correct secret rejected")
	}
	if CheckAPIKey("wrong-secret", hash) {
		t.Fatal("wrong secret accepted")
	}
	if CheckAPIKey("sekrit-key-material", "not-a-bcrypt-hash") {
		t.Fatal("garbage hash accepted")
	}
}
