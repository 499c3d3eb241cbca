package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
)

// charset defines the character set used for generating hashes.
// Uses alphanumeric characters (both cases) for a total of 62 possible characters.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// MinHashLength is the length of the first candidate of every allocation.
	MinHashLength = 4
	// MaxHashLength is the last length tried before giving up.
	MaxHashLength = models.MaxHashLength
)

// ExistenceChecker is the part of the link store the allocator probes.
type ExistenceChecker interface {
	Exists(ctx context.Context, hash string) (bool, error)
}

// HashAllocator finds an unused hash by probing the store.
// It keeps no state between calls: every allocation starts again at MinHashLength.
type HashAllocator struct {
	store  ExistenceChecker
	random io.Reader // Source of randomness, crypto/rand.Reader unless overridden in tests
}

// NewHashAllocator creates a HashAllocator probing the given store.
func NewHashAllocator(store ExistenceChecker) *HashAllocator {
	return &HashAllocator{
		store:  store,
		random: rand.Reader,
	}
}

// GenerateShortCode generates a cryptographically secure random code of the given length.
// rand.Int draws uniformly in [0, len(charset)), so no character is favoured.
func (a *HashAllocator) GenerateShortCode(length int) (string, error) {
	code := make([]byte, length)
	n := big.NewInt(int64(len(charset)))

	for i := range code {
		num, err := rand.Int(a.random, n)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// Allocate returns a hash that did not exist in the store when it was probed.
// Each collision makes the next candidate one character longer; past MaxHashLength
// the allocation fails with ErrAllocationExhausted.
//
// The probe is only an optimisation: the store's insert stays the authoritative
// uniqueness check and may still report ErrDuplicateHash under concurrency.
func (a *HashAllocator) Allocate(ctx context.Context) (string, error) {
	for length := MinHashLength; length <= MaxHashLength; length++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate, err := a.GenerateShortCode(length)
		if err != nil {
			return "", err
		}

		exists, err := a.store.Exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", customerrors.ErrAllocationExhausted
}
