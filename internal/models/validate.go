package models

import (
	"net/url"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
)

const (
	MaxOwnerLength = 128
	MaxHashLength  = 10
	MaxURLLength   = 2048
)

// ValidateOwner rejects empty and oversized owner identities.
func ValidateOwner(owner string) error {
	if owner == "" {
		return customerrors.NewValidationError("owner", "must not be empty")
	}
	if len(owner) > MaxOwnerLength {
		return customerrors.NewValidationError("owner", "too long")
	}
	return nil
}

// ValidateHash accepts 1 to MaxHashLength characters of [A-Za-z0-9].
func ValidateHash(hash string) error {
	if hash == "" {
		return customerrors.NewValidationError("hash", "must not be empty")
	}
	if len(hash) > MaxHashLength {
		return customerrors.NewValidationError("hash", "too long")
	}
	for i := 0; i < len(hash); i++ {
		if !isAlphanumeric(hash[i]) {
			return customerrors.NewValidationError("hash", "must be alphanumeric")
		}
	}
	return nil
}

// ValidateURL requires an absolute http(s) URL.
func ValidateURL(raw string) error {
	if raw == "" {
		return customerrors.NewValidationError("url", "must not be empty")
	}
	if len(raw) > MaxURLLength {
		return customerrors.NewValidationError("url", "too long")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return customerrors.NewValidationError("url", "must be an absolute http or https URL")
	}
	return nil
}

// Validate checks every field of the link.
func (l *Link) Validate() error {
	if err := ValidateOwner(l.Owner); err != nil {
		return err
	}
	if err := ValidateHash(l.Hash); err != nil {
		return err
	}
	return ValidateURL(l.URL)
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
