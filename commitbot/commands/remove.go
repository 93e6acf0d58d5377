package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Remove = discord.SlashCommandCreate{
	Name:        "remove",
	Description: "Remove a member from commit tracking",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to remove",
			Required:    true,
		},
	},
}

func RemoveHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireAdmin(e, "remove members") {
			return nil
		}

		targetID := e.SlashCommandInteractionData().Snowflake("user")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.UserRepository.Delete(ctx, targetID.String()); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("<@%s> is not registered.", targetID))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to remove the member. Try again later.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🗑️ Removed <@%s> from tracking.", targetID))
	}
}
