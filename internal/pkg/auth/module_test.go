package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/digistore/internal/config"
)

func TestNewKeyHasher(t *testing.T) {
	hasher := newKeyHasher()
	bcryptHasher, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if bcryptHasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", bcryptHasher.cost)
	}
}

func TestNewAdminKey(t *testing.T) {
	key := newAdminKey(adminKeyParams{Config: &config.Config{AdminKeyHash: "$2a$10$x"}, Hasher: newKeyHasher()})
	if !key.Enabled() || key.hash != "$2a$10$x" {
		t.Fatalf("unexpected admin key: %+v", key)
	}

	disabled := newAdminKey(adminKeyParams{Config: &config.Config{}, Hasher: newKeyHasher()})
	if disabled.Enabled() {
		t.Fatal("expected disabled admin key")
	}
}
