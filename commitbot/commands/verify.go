package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/attendance"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Verify = discord.SlashCommandCreate{
	Name:        "verify",
	Description: "Check today's commits against your daily goal",
}

func VerifyHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return updateError(e, "You are not registered yet. Ask an admin to `/register` you.")
			}
			return updateError(e, "Failed to load your profile. Try again later.")
		}

		now := time.Now()
		switch b.Attendance.Skip(user, now) {
		case attendance.SkipVacation:
			return updateInfo(e, "🏖️ You are on vacation, no commit check today.")
		case attendance.SkipWeekend:
			return updateInfo(e, "😴 It's a rest day, no commit check today.")
		}

		today := attendance.DateKey(now, b.Attendance.Location())
		rec, err := b.Attendance.Verify(ctx, user, today)
		if err != nil {
			if errors.Is(err, attendance.ErrUnavailable) {
				return updateError(e, "Could not reach GitHub to check your commits. Nothing was recorded, try again later.")
			}
			return updateError(e, "Verification failed. Try again later.")
		}

		title := "❌ Not there yet 😢"
		color := utils.ErrorColor
		if rec.Passed {
			title = "✅ Goal met! 🎉"
			color = utils.SuccessColor
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title: title,
				Description: fmt.Sprintf("👤 GitHub: `%s`\n📦 Repo: `%s`\n📅 Commits today: **%d** / goal **%d**",
					user.GithubID, user.RepoName, rec.Commits, user.GoalPerDay),
				Color: color,
			}},
		})
		return err
	}
}

func updateInfo(e *handler.CommandEvent, message string) error {
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: message,
			Color:       utils.InfoColor,
		}},
	})
	return err
}
