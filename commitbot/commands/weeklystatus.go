package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/attendance"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var WeeklyStatus = discord.SlashCommandCreate{
	Name:        "weekly-status",
	Description: "Your failure count and failed dates for the current period",
}

func WeeklyStatusHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return utils.EH.CreateErrorEmbed(e, "You are not registered yet. Ask an admin to `/register` you.")
			}
			return utils.EH.CreateErrorEmbed(e, "Failed to load your profile. Try again later.")
		}

		sched := b.Cfg.Schedule
		loc := b.Attendance.Location()
		periodStart := attendance.PeriodStart(time.Now(),
			time.Weekday(sched.WeeklyWeekday), sched.WeeklyHour, sched.WeeklyMinute, loc)
		failedDates := b.Attendance.FailedDates(user, periodStart)

		var description strings.Builder
		fmt.Fprintf(&description, "📆 Period since %s\n", periodStart.Format("2006-01-02"))
		fmt.Fprintf(&description, "❌ Fails this period: **%d**\n", user.WeeklyFail)
		if len(failedDates) > 0 {
			fmt.Fprintf(&description, "📅 Failed dates: %s", strings.Join(failedDates, ", "))
		} else {
			description.WriteString("🎉 No failed days recorded this period.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📊 Weekly status",
				Description: description.String(),
				Color:       utils.InfoColor,
			}},
		})
	}
}
