package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/models"
	"github.com/DJN-1/discord-commit-bot/commitbot/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"
)

const usersPerPage = 10

var Users = discord.SlashCommandCreate{
	Name:        "users",
	Description: "List registered members and their goals",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Filter by GitHub login or repository",
			Required:    false,
		},
	},
}

func UsersHandler(b *commitbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		users, err := b.UserRepository.GetAll(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load the member list. Try again later.")
		}

		query, _ := e.SlashCommandInteractionData().OptString("query")
		if query != "" {
			users = filterUsers(users, query)
		}

		if len(users) == 0 {
			if query != "" {
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("No registered members match `%s`.", query))
			}
			return utils.EH.CreateInfoEmbed(e, "No members registered yet.")
		}

		totalPages := (len(users) + usersPerPage - 1) / usersPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * usersPerPage
				endIdx := min(startIdx+usersPerPage, len(users))

				var description strings.Builder
				for _, u := range users[startIdx:endIdx] {
					status := ""
					if u.OnVacation {
						status = " 🏖️"
					}
					fmt.Fprintf(&description, "🧑 <@%s> → `%s/%s` · goal %d/day%s\n",
						u.DiscordID, u.GithubID, u.RepoName, u.GoalPerDay, status)
				}

				embed.
					SetTitle("📋 Registered members").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(users)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func filterUsers(users []*models.User, query string) []*models.User {
	targets := make([]string, len(users))
	for i, u := range users {
		targets[i] = u.GithubID + "/" + u.RepoName
	}

	matches := fuzzy.Find(query, targets)
	filtered := make([]*models.User, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, users[m.Index])
	}
	return filtered
}
