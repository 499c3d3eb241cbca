package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/axellelanca/quickurl/internal/models"
	"github.com/axellelanca/quickurl/internal/reachability"
)

// LinkLister is the part of the link store the monitor reads.
type LinkLister interface {
	All(ctx context.Context) ([]models.Link, error)
}

// LinkMonitor periodically checks that the stored URLs still answer.
// It keeps the last known state of each hash and logs when it changes.
type LinkMonitor struct {
	links       LinkLister
	checker     reachability.Checker
	interval    time.Duration   // How often to check URLs
	knownStates map[string]bool // Last state per hash (true = reachable)
	mu          sync.Mutex      // Protects knownStates
	logger      zerolog.Logger
}

// NewLinkMonitor creates a LinkMonitor checking every interval.
func NewLinkMonitor(links LinkLister, checker reachability.Checker, interval time.Duration, logger zerolog.Logger) *LinkMonitor {
	return &LinkMonitor{
		links:       links,
		checker:     checker,
		interval:    interval,
		knownStates: make(map[string]bool),
		logger:      logger.With().Str("component", "monitor").Logger(),
	}
}

// Start runs a check immediately, then one per interval, until ctx is cancelled.
// It blocks; run it in its own goroutine.
func (m *LinkMonitor) Start(ctx context.Context) {
	m.logger.Info().Dur("interval", m.interval).Msg("starting link monitor")
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckLinks(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("link monitor stopped")
			return
		case <-ticker.C:
			m.CheckLinks(ctx)
		}
	}
}

// CheckLinks performs one pass over every stored link.
// Links deleted since the previous pass are forgotten.
func (m *LinkMonitor) CheckLinks(ctx context.Context) {
	links, err := m.links.All(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to retrieve links for monitoring")
		return
	}

	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if ctx.Err() != nil {
			return
		}
		seen[link.Hash] = struct{}{}

		current := m.checker.Check(ctx, link.URL) == nil

		m.mu.Lock()
		previous, known := m.knownStates[link.Hash]
		m.knownStates[link.Hash] = current
		m.mu.Unlock()

		if !known {
			m.logger.Info().
				Str("hash", link.Hash).
				Str("url", link.URL).
				Str("state", formatState(current)).
				Msg("initial link state")
			continue
		}

		if current != previous {
			m.logger.Warn().
				Str("hash", link.Hash).
				Str("url", link.URL).
				Str("from", formatState(previous)).
				Str("to", formatState(current)).
				Msg("link state changed")
		}
	}

	m.mu.Lock()
	for hash := range m.knownStates {
		if _, ok := seen[hash]; !ok {
			delete(m.knownStates, hash)
		}
	}
	m.mu.Unlock()
}

// State returns the last known state of hash and whether it has been checked.
func (m *LinkMonitor) State(hash string) (reachable, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reachable, known = m.knownStates[hash]
	return reachable, known
}

func formatState(reachable bool) string {
	if reachable {
		return "REACHABLE"
	}
	return "UNREACHABLE"
}
