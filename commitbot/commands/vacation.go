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

var Vacation = discord.SlashCommandCreate{
	Name:        "vacation",
	Description: "Toggle vacation mode for a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to update",
			Required:    true,
		},
		discord.ApplicationCommandOptionBool{
			Name:        "enabled",
			Description: "Whether the member is on vacation",
			Required:    true,
		},
	},
}

func VacationHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireAdmin(e, "toggle vacation mode") {
			return nil
		}

		data := e.SlashCommandInteractionData()
		targetID := data.Snowflake("user")
		enabled := data.Bool("enabled")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.UserRepository.SetVacation(ctx, targetID.String(), enabled); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("<@%s> is not registered.", targetID))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to update vacation mode. Try again later.")
		}

		if enabled {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🏖️ <@%s> is now on vacation, checks suspended.", targetID))
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("💪 <@%s> is back, checks resume.", targetID))
	}
}
