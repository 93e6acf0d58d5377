package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/attendance"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

const rankTopN = 10

var Rank = discord.SlashCommandCreate{
	Name:        "rank",
	Description: "☕ Lifetime fail ranking: who owes the most coffee",
}

func RankHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		users, err := b.UserRepository.GetAll(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load the ranking. Try again later.")
		}

		entries := attendance.Rank(users, rankTopN)
		if len(entries) == 0 {
			return utils.EH.CreateInfoEmbed(e, "☕ Coffee ranking ☕\n🥳 Everyone is at zero. Keep committing!")
		}

		var description strings.Builder
		for _, entry := range entries {
			fmt.Fprintf(&description, "%d. <@%s>: %d fail(s) lifetime\n",
				entry.Rank, entry.DiscordID, entry.TotalFail)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "☕ Coffee ranking ☕",
				Description: description.String(),
				Color:       utils.WarnColor,
			}},
		})
	}
}
