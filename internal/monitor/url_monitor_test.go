package monitor

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/quickurl/internal/models"
)

type fakeLister struct {
	mu    sync.Mutex
	links []models.Link
	err   error
	calls int
}

func (f *fakeLister) All(context.Context) ([]models.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.links, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// urlChecker reports every URL in down as unreachable.
type urlChecker struct {
	mu   sync.Mutex
	down map[string]bool
}

func (c *urlChecker) Check(_ context.Context, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.down[url] {
		return errors.New("down")
	}
	return nil
}

func (c *urlChecker) setDown(url string, down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.down[url] = down
}

func TestLinkMonitor_CheckLinks(t *testing.T) {
	ctx := context.Background()
	lister := &fakeLister{links: []models.Link{
		{Owner: "u1", Hash: "aaaa", URL: "https://a.example"},
		{Owner: "u1", Hash: "bbbb", URL: "https://b.example"},
	}}
	checker := &urlChecker{down: map[string]bool{"https://b.example": true}}

	var buf bytes.Buffer
	m := NewLinkMonitor(lister, checker, time.Minute, zerolog.New(&buf))

	m.CheckLinks(ctx)

	reachable, known := m.State("aaaa")
	assert.True(t, known)
	assert.True(t, reachable)
	reachable, known = m.State("bbbb")
	assert.True(t, known)
	assert.False(t, reachable)
	assert.Contains(t, buf.String(), "initial link state")
	assert.NotContains(t, buf.String(), "link state changed")

	checker.setDown("https://a.example", true)
	m.CheckLinks(ctx)

	reachable, _ = m.State("aaaa")
	assert.False(t, reachable)
	assert.Contains(t, buf.String(), "link state changed")
	assert.Contains(t, buf.String(), `"from":"REACHABLE"`)

	lister.links = lister.links[1:]
	m.CheckLinks(ctx)

	_, known = m.State("aaaa")
	assert.False(t, known, "deleted links are forgotten")
}

func TestLinkMonitor_CheckLinks_ListError(t *testing.T) {
	var buf bytes.Buffer
	m := NewLinkMonitor(&fakeLister{err: errors.New("database is locked")}, &urlChecker{down: map[string]bool{}}, time.Minute, zerolog.New(&buf))

	m.CheckLinks(context.Background())

	assert.Contains(t, buf.String(), "failed to retrieve links for monitoring")
}

func TestLinkMonitor_Start_StopsOnCancel(t *testing.T) {
	lister := &fakeLister{links: []models.Link{{Owner: "u1", Hash: "aaaa", URL: "https://a.example"}}}
	m := NewLinkMonitor(lister, &urlChecker{down: map[string]bool{}}, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return lister.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
