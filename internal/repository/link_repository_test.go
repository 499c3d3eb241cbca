package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/quickurl/internal/config"
	"github.com/axellelanca/quickurl/internal/database"
	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Name:          filepath.Join(t.TempDir(), "links.db"),
		BusyTimeoutMs: 5000,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestRepository(t *testing.T, links ...models.Link) *GormLinkRepository {
	t.Helper()
	repo := NewLinkRepository(newTestDB(t))
	for i := range links {
		require.NoError(t, repo.Insert(context.Background(), &links[i]))
	}
	return repo
}

func TestGormLinkRepository_InsertAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	longURL := `https://example.com/search?q=it's;"quoted"`
	require.NoError(t, repo.Insert(ctx, &models.Link{Owner: "u1", Hash: "AbC1", URL: longURL}))

	got, err := repo.Lookup(ctx, "AbC1")
	require.NoError(t, err)
	assert.Equal(t, longURL, got, "quotes and semicolons are stored verbatim")

	owner, err := repo.OwnerOf(ctx, "AbC1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	exists, err := repo.Exists(ctx, "AbC1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "abc1")
	require.NoError(t, err)
	assert.False(t, exists, "hashes are case sensitive")
}

func TestGormLinkRepository_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, models.Link{Owner: "u1", Hash: "dupe", URL: "https://example.com/first"})

	err := repo.Insert(ctx, &models.Link{Owner: "u2", Hash: "dupe", URL: "https://example.com/second"})
	assert.ErrorIs(t, err, customerrors.ErrDuplicateHash)

	got, err := repo.Lookup(ctx, "dupe")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/first", got)

	owner, err := repo.OwnerOf(ctx, "dupe")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner, "owner is never overwritten")
}

func TestGormLinkRepository_InsertInvalid(t *testing.T) {
	tests := []struct {
		name string
		link models.Link
	}{
		{name: "empty owner", link: models.Link{Hash: "abcd", URL: "https://example.com"}},
		{name: "empty hash", link: models.Link{Owner: "u1", URL: "https://example.com"}},
		{name: "empty url", link: models.Link{Owner: "u1", Hash: "abcd"}},
		{name: "hash with semicolon", link: models.Link{Owner: "u1", Hash: "ab;d", URL: "https://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestRepository(t)

			err := repo.Insert(ctx, &tt.link)
			assert.ErrorIs(t, err, customerrors.ErrInvalidInput)

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestGormLinkRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.Lookup(ctx, "nope")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	_, err = repo.OwnerOf(ctx, "nope")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestGormLinkRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t,
		models.Link{Owner: "u1", Hash: "zzzz", URL: "https://example.com/1"},
		models.Link{Owner: "u2", Hash: "bbbb", URL: "https://example.com/other"},
		models.Link{Owner: "u1", Hash: "aaaa", URL: "https://example.com/2"},
		models.Link{Owner: "u1", Hash: "mmmm", URL: "https://example.com/3"},
	)

	links, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, []string{"zzzz", "aaaa", "mmmm"}, []string{links[0].Hash, links[1].Hash, links[2].Hash})
	assert.Equal(t, "https://example.com/2", links[1].URL)

	links, err = repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestGormLinkRepository_Count(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t,
		models.Link{Owner: "u1", Hash: "aaaa", URL: "https://example.com/1"},
		models.Link{Owner: "u2", Hash: "bbbb", URL: "https://example.com/2"},
	)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormLinkRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, models.Link{Owner: "u1", Hash: "aaaa", URL: "https://example.com/1"})

	deleted, err := repo.Delete(ctx, "u2", "aaaa")
	require.NoError(t, err)
	assert.False(t, deleted, "owner must match exactly")

	deleted, err = repo.Delete(ctx, "u1", "zzzz")
	require.NoError(t, err)
	assert.False(t, deleted, "missing row is a no-op")

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err = repo.Delete(ctx, "u1", "aaaa")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.Lookup(ctx, "aaaa")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestGormLinkRepository_DeleteOwned(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, models.Link{Owner: "u1", Hash: "aaaa", URL: "https://example.com/1"})

	err := repo.DeleteOwned(ctx, "u1", "zzzz")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	err = repo.DeleteOwned(ctx, "u2", "aaaa")
	assert.ErrorIs(t, err, customerrors.ErrNotOwner)

	got, err := repo.Lookup(ctx, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/1", got)

	require.NoError(t, repo.DeleteOwned(ctx, "u1", "aaaa"))

	_, err = repo.Lookup(ctx, "aaaa")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	err = repo.DeleteOwned(ctx, "u1", "aaaa")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestGormLinkRepository_All(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t,
		models.Link{Owner: "u1", Hash: "bbbb", URL: "https://example.com/1"},
		models.Link{Owner: "u2", Hash: "aaaa", URL: "https://example.com/2"},
	)

	links, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "bbbb", links[0].Hash)
	assert.Equal(t, "aaaa", links[1].Hash)
}

func TestGormLinkRepository_ConcurrentInsertSameHash(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	const writers = 8
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(ctx, &models.Link{Owner: "u1", Hash: "race", URL: "https://example.com"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, customerrors.ErrDuplicateHash)
	}
	assert.Equal(t, 1, succeeded)
}

func TestGormLinkRepository_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	require.NoError(t, database.Close(db))

	_, err := repo.Count(ctx)
	assert.ErrorIs(t, err, customerrors.ErrStorageUnavailable)

	_, err = repo.Exists(ctx, "abcd")
	assert.ErrorIs(t, err, customerrors.ErrStorageUnavailable)

	_, err = repo.Lookup(ctx, "abcd")
	assert.ErrorIs(t, err, customerrors.ErrStorageUnavailable)

	err = repo.DeleteOwned(ctx, "u1", "abcd")
	assert.ErrorIs(t, err, customerrors.ErrStorageUnavailable)
}
