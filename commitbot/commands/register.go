package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/github"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"
)

var Register = discord.SlashCommandCreate{
	Name:        "register",
	Description: "Register a member for daily commit tracking",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to track",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "github_id",
			Description: "GitHub login of the member",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "repo",
			Description: "Repository name to check for commits",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "goal",
			Description: "Commits required per day",
			Required:    true,
			MinValue:    &[]int{1}[0],
		},
	},
}

func RegisterHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !requireAdmin(e, "register members") {
			return nil
		}

		data := e.SlashCommandInteractionData()
		targetID := data.Snowflake("user")
		githubID := data.String("github_id")
		repoName := data.String("repo")
		goal := data.Int("goal")

		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Both lookups must resolve before anything is persisted.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return b.GitHub.ResolveUser(gctx, githubID) })
		g.Go(func() error { return b.GitHub.ResolveRepo(gctx, githubID, repoName) })

		if err := g.Wait(); err != nil {
			if errors.Is(err, github.ErrNotFound) {
				return updateError(e, fmt.Sprintf("GitHub user or repository `%s/%s` does not exist.", githubID, repoName))
			}
			slog.Warn("GitHub resolution failed during register",
				slog.String("type", "gh"),
				slog.String("repo", githubID+"/"+repoName),
				slog.Any("error", err))
			return updateError(e, "Could not reach GitHub to validate the account. Try again later.")
		}

		user := &models.User{
			DiscordID:  targetID.String(),
			GithubID:   githubID,
			RepoName:   repoName,
			GoalPerDay: goal,
		}
		if err := b.UserRepository.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrUserExists) {
				return updateError(e, fmt.Sprintf("<@%s> is already registered.", targetID))
			}
			slog.Error("Failed to create user profile",
				slog.String("type", "db"),
				slog.String("discord_id", targetID.String()),
				slog.Any("error", err))
			return updateError(e, "Failed to save the profile. Try again later.")
		}

		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Description: fmt.Sprintf("✅ Registered <@%s>: `%s/%s`, %d commit(s)/day", targetID, githubID, repoName, goal),
				Color:       utils.SuccessColor,
			}},
		})
		return err
	}
}

func updateError(e *handler.CommandEvent, message string) error {
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{{
			Description: "❌ " + message,
			Color:       utils.ErrorColor,
		}},
	})
	return err
}
