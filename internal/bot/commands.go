package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	customerrors "github.com/axellelanca/quickurl/internal/errors"
	"github.com/axellelanca/quickurl/internal/models"
	"github.com/axellelanca/quickurl/internal/services"
)

const (
	embedColor = 0x0099ff
	// Discord rejects embeds with more fields.
	maxEmbedFields = 25
)

// LinkManager is the link service as seen by the bot.
type LinkManager interface {
	CreateLink(ctx context.Context, owner, longURL string) (*models.Link, error)
	ShortURL(hash string) string
	Count(ctx context.Context) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]services.OwnedLink, error)
	DeleteLink(ctx context.Context, requester, hash string) error
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "create",
		Description: "Shortens an URL!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "url",
				Description: "Your URL",
				Required:    true,
			},
		},
	},
	{
		Name:        "urlcount",
		Description: "Get the total count of shortened URLs",
	},
	{
		Name:        "myurls",
		Description: "Displays a list of the URLs created by you",
	},
	{
		Name:        "erase",
		Description: "Deletes an URL!",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "hash",
				Description: "The URL's hash",
				Required:    true,
			},
		},
	},
}

// commandHandler builds the reply of one slash command.
type commandHandler func(ctx context.Context, links LinkManager, userID string, options []*discordgo.ApplicationCommandInteractionDataOption, logger zerolog.Logger) *discordgo.InteractionResponseData

var commandHandlers = map[string]commandHandler{
	"create":   handleCreate,
	"urlcount": handleURLCount,
	"myurls":   handleMyURLs,
	"erase":    handleErase,
}

func handleCreate(ctx context.Context, links LinkManager, userID string, options []*discordgo.ApplicationCommandInteractionDataOption, logger zerolog.Logger) *discordgo.InteractionResponseData {
	url := optionString(options, "url")

	link, err := links.CreateLink(ctx, userID, url)
	if err != nil {
		if errors.Is(err, customerrors.ErrUnreachableURL) {
			return ephemeral("That URL is not reachable")
		}
		if !errors.Is(err, customerrors.ErrInvalidInput) {
			logger.Error().Err(err).Str("user", userID).Msg("create command failed")
		}
		return ephemeral("There was an error while trying to shorten your URL")
	}
	return ephemeral(links.ShortURL(link.Hash))
}

func handleURLCount(ctx context.Context, links LinkManager, _ string, _ []*discordgo.ApplicationCommandInteractionDataOption, logger zerolog.Logger) *discordgo.InteractionResponseData {
	count, err := links.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("urlcount command failed")
		return ephemeral("There was an error while trying to get the URL count")
	}
	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Color:       embedColor,
			Title:       "URL Count",
			Description: fmt.Sprintf("The current URL count is %d", count),
		}},
	}
}

func handleMyURLs(ctx context.Context, links LinkManager, userID string, _ []*discordgo.ApplicationCommandInteractionDataOption, logger zerolog.Logger) *discordgo.InteractionResponseData {
	owned, err := links.ListByOwner(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Str("user", userID).Msg("myurls command failed")
		return ephemeral("There was an error while trying to get your URLs")
	}

	embed := &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       "Your URLs",
		Description: "List of the URLs you created",
	}
	if len(owned) == 0 {
		embed.Description = "You have not created any URL yet"
	}
	for i, l := range owned {
		if i == maxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("%d more not shown", len(owned)-maxEmbedFields),
			}
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("URL %d", l.ID),
			Value: fmt.Sprintf("Original: [Click here](%s)\nShortened: [Click here](%s)", l.OriginalURL, l.ShortenedURL),
		})
	}

	return &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}
}

func handleErase(ctx context.Context, links LinkManager, userID string, options []*discordgo.ApplicationCommandInteractionDataOption, logger zerolog.Logger) *discordgo.InteractionResponseData {
	hash := optionString(options, "hash")

	err := links.DeleteLink(ctx, userID, hash)
	switch {
	case err == nil:
		return ephemeral("URL deleted successfully!")
	case errors.Is(err, customerrors.ErrNotOwner):
		return ephemeral("You are not the owner of this URL!")
	case errors.Is(err, customerrors.ErrNotFound), errors.Is(err, customerrors.ErrInvalidInput):
		return ephemeral("URL not found")
	default:
		logger.Error().Err(err).Str("user", userID).Str("hash", hash).Msg("erase command failed")
		return ephemeral("There was an error while trying to delete the URL")
	}
}

func optionString(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range options {
		if o.Name == name {
			return o.StringValue()
		}
	}
	return ""
}

func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

// interactionUserID returns the id of whoever ran the command: the member's user in a
// guild, the user in a DM.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
