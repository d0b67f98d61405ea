package auth

import (
	"strings"
	"testing"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	hasher := &PasswordHasher{cost: 4} // minimum cost keeps the test fast

	password := "correct-horse-battery"
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == password {
		t.Error("hash must not equal the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("expected a bcrypt hash, got %q", hash)
	}

	t.Run("correct password verifies", func(t *testing.T) {
		if !hasher.Verify(password, hash) {
			t.Error("Verify() = false for the correct password")
		}
	})

	t.Run("wrong password fails", func(t *testing.T) {
		if hasher.Verify("wrong-password", hash) {
			t.Error("Verify() = true for a wrong password")
		}
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		if hasher.Verify(password, "not-a-hash") {
			t.Error("Verify() = true for a malformed hash")
		}
	})
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	hasher := &PasswordHasher{cost: 4}

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password must differ by salt")
	}
}

func TestNewPasswordHasher_DefaultCost(t *testing.T) {
	hasher := NewPasswordHasher()
	if hasher.cost != defaultBcryptCost {
		t.Errorf("cost = %d, want %d", hasher.cost, defaultBcryptCost)
	}
}
