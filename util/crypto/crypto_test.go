package crypto

import (
	"testing"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret" {
		t.Fatal("hash equals the clear password")
	}
	if !CheckPasswordHash(hash, "secret") {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPasswordAsBcrypt("secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPasswordAsBcrypt("secret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}
