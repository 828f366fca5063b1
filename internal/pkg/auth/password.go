package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminDisabled   = errors.New("admin key not configured")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// KeyHasher defines hashing strategy for credentials.
type KeyHasher interface {
	Hash(key string) (string, error)
	Compare(hash string, key string) error
}

// BcryptHasher uses bcrypt to hash keys.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided key.
func (h *BcryptHasher) Hash(key string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(key), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks key against stored hash.
func (h *BcryptHasher) Compare(hash string, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}

// AdminKey authorizes operator-triggered actions against a stored hash.
type AdminKey struct {
	hash   string
	hasher KeyHasher
}

func NewAdminKey(hash string, hasher KeyHasher) *AdminKey {
	return &AdminKey{hash: hash, hasher: hasher}
}

// Enabled reports whether a hash is configured at all.
func (k *AdminKey) Enabled() bool {
	return k != nil && k.hash != ""
}

// Authorize returns ErrAdminDisabled without a configured hash and
// ErrInvalidAdminKey when presented does not match.
func (k *AdminKey) Authorize(presented string) error {
	if !k.Enabled() {
		return ErrAdminDisabled
	}
	if presented == "" {
		return ErrInvalidAdminKey
	}
	if err := k.hasher.Compare(k.hash, presented); err != nil {
		return ErrInvalidAdminKey
	}
	return nil
}
