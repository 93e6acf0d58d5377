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

var AdjustFails = discord.SlashCommandCreate{
	Name:        "adjust-fails",
	Description: "Adjust a member's fail counters by a signed amount",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to adjust",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "delta",
			Description: "Amount to add to both counters (negative to correct down)",
			Required:    true,
		},
	},
}

func AdjustFailsHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireAdmin(e, "adjust fail counters") {
			return nil
		}

		data := e.SlashCommandInteractionData()
		targetID := data.Snowflake("user")
		delta := data.Int("delta")

		if delta == 0 {
			return utils.EH.CreateErrorEmbed(e, "The adjustment must be non-zero.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.UserRepository.IncrementFails(ctx, targetID.String(), delta); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("<@%s> is not registered.", targetID))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to adjust the counters. Try again later.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🛠️ Adjusted <@%s>'s fail counters by %+d.", targetID, delta))
	}
}
