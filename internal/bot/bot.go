// Package bot exposes the link service as Discord slash commands.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// storageMargin is the time left to the store once the reachability check used its
// whole timeout.
const storageMargin = 5 * time.Second

// Bot represents the Discord bot instance
type Bot struct {
	session        *discordgo.Session
	links          LinkManager
	guildID        string        // Empty registers global commands
	commandTimeout time.Duration // Bounds the work done for one interaction
	logger         zerolog.Logger
}

// New creates a Bot authenticated with token.
// validationTimeout is the reachability check timeout; commands get that long plus
// storageMargin before their context expires.
func New(token, guildID string, links LinkManager, validationTimeout time.Duration, logger zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	b := &Bot{
		session:        session,
		links:          links,
		guildID:        guildID,
		commandTimeout: validationTimeout + storageMargin,
		logger:         logger.With().Str("component", "discord").Logger(),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteractionCreate)
	return b, nil
}

// Start opens the session and blocks until ctx is cancelled, then removes the
// registered commands and closes the session.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	b.logger.Info().Msg("Discord bot started")

	<-ctx.Done()

	b.logger.Info().Msg("shutting down Discord bot")
	b.cleanupCommands()
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info().Str("username", event.User.Username).Msg("Discord bot is ready")

	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, b.guildID, cmd); err != nil {
			b.logger.Error().Err(err).Str("command", cmd.Name).Msg("failed to register command")
			continue
		}
		b.logger.Debug().Str("command", cmd.Name).Msg("registered command")
	}
}

// onInteractionCreate acknowledges the command at once, since Discord expects an answer
// within three seconds, then edits the deferred reply with the result.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if _, ok := commandHandlers[data.Name]; !ok {
		b.logger.Warn().Str("command", data.Name).Msg("unknown command")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: deferFlags(data.Name)},
	})
	if err != nil {
		b.logger.Error().Err(err).Str("command", data.Name).Msg("failed to defer interaction response")
		return
	}

	resp := b.execute(data.Name, interactionUserID(i), data.Options)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &resp.Content,
		Embeds:  &resp.Embeds,
	})
	if err != nil {
		b.logger.Error().Err(err).Str("command", data.Name).Msg("failed to edit interaction response")
	}
}

// execute runs the named command under the bot's command timeout.
func (b *Bot) execute(name, userID string, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionResponseData {
	handler, ok := commandHandlers[name]
	if !ok {
		return ephemeral("Unknown command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.commandTimeout)
	defer cancel()

	return handler(ctx, b.links, userID, options, b.logger)
}

// deferFlags keeps every reply private except the URL count.
func deferFlags(name string) discordgo.MessageFlags {
	if name == "urlcount" {
		return 0
	}
	return discordgo.MessageFlagsEphemeral
}

func (b *Bot) cleanupCommands() {
	if b.session.State == nil || b.session.State.User == nil {
		return
	}
	appID := b.session.State.User.ID

	registered, err := b.session.ApplicationCommands(appID, b.guildID)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to fetch commands for cleanup")
		return
	}
	for _, cmd := range registered {
		if err := b.session.ApplicationCommandDelete(appID, b.guildID, cmd.ID); err != nil {
			b.logger.Error().Err(err).Str("command", cmd.Name).Msg("failed to delete command")
		}
	}
}
