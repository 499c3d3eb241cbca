package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
	"github.com/axellelanca/quickurl/internal/services"
)

type fakeLinks struct {
	createErr error
	count     int64
	countErr  error
	owned     []services.OwnedLink
	listErr   error
	deleteErr error

	gotOwner string
	gotURL   string
	gotHash  string
}

func (f *fakeLinks) CreateLink(_ context.Context, owner, longURL string) (*models.Link, error) {
	f.gotOwner, f.gotURL = owner, longURL
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Link{Owner: owner, Hash: "AbC1", URL: longURL}, nil
}

func (f *fakeLinks) ShortURL(hash string) string { return "http://qu.ick/" + hash }

func (f *fakeLinks) Count(context.Context) (int64, error) { return f.count, f.countErr }

func (f *fakeLinks) ListByOwner(_ context.Context, owner string) ([]services.OwnedLink, error) {
	f.gotOwner = owner
	return f.owned, f.listErr
}

func (f *fakeLinks) DeleteLink(_ context.Context, requester, hash string) error {
	f.gotOwner, f.gotHash = requester, hash
	return f.deleteErr
}

func stringOption(name, value string) []*discordgo.ApplicationCommandInteractionDataOption {
	return []*discordgo.ApplicationCommandInteractionDataOption{{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}}
}

func TestHandleCreate(t *testing.T) {
	tests := []struct {
		name        string
		createErr   error
		wantContent string
	}{
		{name: "success", wantContent: "http://qu.ick/AbC1"},
		{name: "unreachable", createErr: customerrors.ErrURLCheckFailed{URL: "x", Reason: "404"}, wantContent: "That URL is not reachable"},
		{name: "invalid", createErr: customerrors.NewValidationError("url", "too long"), wantContent: "There was an error while trying to shorten your URL"},
		{name: "storage", createErr: customerrors.NewStorageError("insert", assert.AnError), wantContent: "There was an error while trying to shorten your URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := &fakeLinks{createErr: tt.createErr}

			resp := handleCreate(context.Background(), links, "user-1", stringOption("url", "https://example.com"), zerolog.Nop())

			assert.Equal(t, tt.wantContent, resp.Content)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Flags)
			assert.Equal(t, "user-1", links.gotOwner)
			assert.Equal(t, "https://example.com", links.gotURL)
		})
	}
}

func TestHandleURLCount(t *testing.T) {
	resp := handleURLCount(context.Background(), &fakeLinks{count: 42}, "user-1", nil, zerolog.Nop())
	require.Len(t, resp.Embeds, 1)
	assert.Equal(t, "URL Count", resp.Embeds[0].Title)
	assert.Equal(t, "The current URL count is 42", resp.Embeds[0].Description)

	resp = handleURLCount(context.Background(), &fakeLinks{countErr: assert.AnError}, "user-1", nil, zerolog.Nop())
	assert.Equal(t, "There was an error while trying to get the URL count", resp.Content)
}

func TestHandleMyURLs(t *testing.T) {
	links := &fakeLinks{owned: []services.OwnedLink{
		{ID: 1, OriginalURL: "https://example.com/a", ShortenedURL: "http://qu.ick/aaaa"},
		{ID: 2, OriginalURL: "https://example.com/b", ShortenedURL: "http://qu.ick/bbbb"},
	}}

	resp := handleMyURLs(context.Background(), links, "user-1", nil, zerolog.Nop())

	assert.Equal(t, "user-1", links.gotOwner)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Flags)
	require.Len(t, resp.Embeds, 1)
	embed := resp.Embeds[0]
	assert.Equal(t, "Your URLs", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "URL 1", embed.Fields[0].Name)
	assert.Equal(t, "Original: [Click here](https://example.com/a)\nShortened: [Click here](http://qu.ick/aaaa)", embed.Fields[0].Value)
	assert.Equal(t, "URL 2", embed.Fields[1].Name)
}

func TestHandleMyURLs_TooManyFields(t *testing.T) {
	owned := make([]services.OwnedLink, 30)
	for i := range owned {
		owned[i] = services.OwnedLink{ID: i + 1, OriginalURL: fmt.Sprintf("https://example.com/%d", i), ShortenedURL: "http://qu.ick/x"}
	}

	resp := handleMyURLs(context.Background(), &fakeLinks{owned: owned}, "user-1", nil, zerolog.Nop())

	embed := resp.Embeds[0]
	assert.Len(t, embed.Fields, maxEmbedFields)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "5 more not shown", embed.Footer.Text)
}

func TestHandleMyURLs_Empty(t *testing.T) {
	resp := handleMyURLs(context.Background(), &fakeLinks{owned: []services.OwnedLink{}}, "user-1", nil, zerolog.Nop())

	require.Len(t, resp.Embeds, 1)
	assert.Empty(t, resp.Embeds[0].Fields)
	assert.Equal(t, "You have not created any URL yet", resp.Embeds[0].Description)
}

func TestHandleErase(t *testing.T) {
	tests := []struct {
		name        string
		deleteErr   error
		wantContent string
	}{
		{name: "deleted", wantContent: "URL deleted successfully!"},
		{name: "not owner", deleteErr: customerrors.ErrNotOwner, wantContent: "You are not the owner of this URL!"},
		{name: "not found", deleteErr: customerrors.ErrNotFound, wantContent: "URL not found"},
		{name: "storage", deleteErr: customerrors.NewStorageError("delete", assert.AnError), wantContent: "There was an error while trying to delete the URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := &fakeLinks{deleteErr: tt.deleteErr}

			resp := handleErase(context.Background(), links, "user-1", stringOption("hash", "AbC1"), zerolog.Nop())

			assert.Equal(t, tt.wantContent, resp.Content)
			assert.Equal(t, "user-1", links.gotOwner)
			assert.Equal(t, "AbC1", links.gotHash)
		})
	}
}

func TestInteractionUserID(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "member-1"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "user-1"},
	}}

	assert.Equal(t, "member-1", interactionUserID(guild))
	assert.Equal(t, "user-1", interactionUserID(dm))
	assert.Empty(t, interactionUserID(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}))
}

func TestCommandsHaveHandlers(t *testing.T) {
	require.Len(t, commandHandlers, len(commands))
	for _, cmd := range commands {
		assert.Contains(t, commandHandlers, cmd.Name)
	}
}
