package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Edit = discord.SlashCommandCreate{
	Name:        "edit",
	Description: "Edit a registered member's profile",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to edit",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "field",
			Description: "Which profile field to change",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "GitHub login", Value: repositories.FieldGithubID},
				{Name: "Repository", Value: repositories.FieldRepoName},
				{Name: "Daily goal", Value: repositories.FieldGoalPerDay},
			},
		},
		discord.ApplicationCommandOptionString{
			Name:        "value",
			Description: "The new value",
			Required:    true,
		},
	},
}

func EditHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireAdmin(e, "edit members") {
			return nil
		}

		data := e.SlashCommandInteractionData()
		targetID := data.Snowflake("user")
		field := data.String("field")
		rawValue := data.String("value")

		var value any = rawValue
		if field == repositories.FieldGoalPerDay {
			goal, err := strconv.Atoi(rawValue)
			if err != nil || goal < 1 {
				return utils.EH.CreateErrorEmbed(e, "The daily goal must be a positive number.")
			}
			value = goal
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := b.UserRepository.UpdateField(ctx, targetID.String(), field, value); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("<@%s> is not registered.", targetID))
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to update the profile. Try again later.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🔧 Updated <@%s>: `%s` → `%v`", targetID, field, value))
	}
}
