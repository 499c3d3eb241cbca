// Package services contains the business logic layer for the QuickURL application
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
	"github.com/axellelanca/quickurl/internal/reachability"
	"github.com/axellelanca/quickurl/internal/repository"
)

// maxInsertAttempts bounds how many times a create draws a new hash after the store
// rejected the previous one as a duplicate.
const maxInsertAttempts = 3

// OwnedLink is one entry of an owner's listing.
type OwnedLink struct {
	ID           int    `json:"id"` // 1-based position in the owner's listing
	OriginalURL  string `json:"original_url"`
	ShortenedURL string `json:"shortened_url"`
	Hash         string `json:"-"`
}

// LinkService provides business logic methods for managing shortened links.
// It acts as an intermediary between the adapters (HTTP, bot, CLI) and the link store.
type LinkService struct {
	linkRepo  repository.LinkRepository // Repository interface for database operations
	allocator *HashAllocator
	checker   reachability.Checker // Reachability check run before allocation
	baseURL   string               // Prefix of every shortened URL
	logger    zerolog.Logger
}

// NewLinkService creates and returns a new instance of LinkService.
func NewLinkService(linkRepo repository.LinkRepository, checker reachability.Checker, baseURL string, logger zerolog.Logger) *LinkService {
	if checker == nil {
		checker = reachability.Noop{}
	}
	return &LinkService{
		linkRepo:  linkRepo,
		allocator: NewHashAllocator(linkRepo),
		checker:   checker,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger.With().Str("component", "link_service").Logger(),
	}
}

// ShortURL rebuilds the public short URL of a hash.
func (s *LinkService) ShortURL(hash string) string {
	return s.baseURL + "/" + hash
}

// CreateLink validates the request, checks the URL answers, then allocates a hash
// and stores the link.
// A duplicate reported by the store (another request won the same hash) is retried
// with a fresh allocation; after maxInsertAttempts the create fails with
// ErrAllocationExhausted.
func (s *LinkService) CreateLink(ctx context.Context, owner, longURL string) (*models.Link, error) {
	if err := models.ValidateOwner(owner); err != nil {
		return nil, err
	}
	if err := models.ValidateURL(longURL); err != nil {
		return nil, err
	}

	// The allocator must not run for an unreachable URL.
	if err := s.checker.Check(ctx, longURL); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		hash, err := s.allocator.Allocate(ctx)
		if err != nil {
			s.logAllocationFailure(err, owner)
			return nil, err
		}

		link := &models.Link{Owner: owner, Hash: hash, URL: longURL}
		err = s.linkRepo.Insert(ctx, link)
		if err == nil {
			s.logger.Info().Str("owner", owner).Str("hash", hash).Msg("link created")
			return link, nil
		}
		if !errors.Is(err, customerrors.ErrDuplicateHash) {
			s.logAllocationFailure(err, owner)
			return nil, err
		}

		s.logger.Warn().
			Str("hash", hash).
			Int("attempt", attempt).
			Int("max_attempts", maxInsertAttempts).
			Msg("hash taken between probe and insert, retrying")
	}

	s.logger.Error().Str("owner", owner).Msg("no hash could be inserted")
	return nil, customerrors.ErrAllocationExhausted
}

func (s *LinkService) logAllocationFailure(err error, owner string) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.logger.Error().Err(err).Str("owner", owner).Msg("failed to create link")
}

// Resolve returns the URL stored for hash, or ErrNotFound.
func (s *LinkService) Resolve(ctx context.Context, hash string) (string, error) {
	url, err := s.linkRepo.Lookup(ctx, hash)
	if err != nil {
		if !errors.Is(err, customerrors.ErrNotFound) {
			s.logger.Error().Err(err).Str("hash", hash).Msg("failed to resolve link")
		}
		return "", err
	}
	return url, nil
}

// Count returns the total number of stored links.
func (s *LinkService) Count(ctx context.Context) (int64, error) {
	count, err := s.linkRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count links")
		return 0, err
	}
	return count, nil
}

// ListByOwner returns the owner's links in creation order with their short URLs.
// An owner with no links gets an empty, non-nil slice.
func (s *LinkService) ListByOwner(ctx context.Context, owner string) ([]OwnedLink, error) {
	if err := models.ValidateOwner(owner); err != nil {
		return nil, err
	}

	links, err := s.linkRepo.ListByOwner(ctx, owner)
	if err != nil {
		s.logger.Error().Err(err).Str("owner", owner).Msg("failed to list links")
		return nil, err
	}

	owned := make([]OwnedLink, 0, len(links))
	for i, link := range links {
		owned = append(owned, OwnedLink{
			ID:           i + 1,
			OriginalURL:  link.URL,
			ShortenedURL: s.ShortURL(link.Hash),
			Hash:         link.Hash,
		})
	}
	return owned, nil
}

// DeleteLink removes hash if requester owns it.
// Returns ErrNotFound when no such link exists and ErrNotOwner when it belongs to someone
// else; in both cases nothing is removed. A malformed hash simply matches no link.
func (s *LinkService) DeleteLink(ctx context.Context, requester, hash string) error {
	if err := models.ValidateOwner(requester); err != nil {
		return err
	}

	err := s.linkRepo.DeleteOwned(ctx, requester, hash)
	switch {
	case err == nil:
		s.logger.Info().Str("owner", requester).Str("hash", hash).Msg("link deleted")
	case errors.Is(err, customerrors.ErrNotOwner):
		s.logger.Warn().Str("requester", requester).Str("hash", hash).Msg("delete refused, requester is not the owner")
	case errors.Is(err, customerrors.ErrNotFound):
	default:
		s.logger.Error().Err(err).Str("hash", hash).Msg("failed to delete link")
	}
	return err
}
