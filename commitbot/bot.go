package commitbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot/attendance"
	"github.com/DJN-1/discord-commit-bot/commitbot/database"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/github"
	"github.com/DJN-1/discord-commit-bot/commitbot/services"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg            Config
	Client         bot.Client
	Paginator      *paginator.Manager
	Version        string
	Commit         string
	DB             *database.DB
	UserRepository repositories.UserRepository
	GitHub         *github.Client
	Attendance     *attendance.Service
	Aggregator     *attendance.Aggregator
	Scheduler      *attendance.Scheduler
	Archive        *services.ReportArchive
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Commit bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("your commits"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}

// SendReport posts an aggregate report to the configured channel and, when
// an archive is configured, keeps a copy in object storage. Archive
// failures are logged but never block delivery.
func (b *Bot) SendReport(ctx context.Context, name, content string) error {
	if b.Archive != nil {
		if err := b.Archive.Store(ctx, name, content); err != nil {
			slog.Warn("Report archival failed",
				slog.String("type", "sys"),
				slog.String("report", name),
				slog.Any("error", err))
		}
	}

	_, err := b.Client.Rest().CreateMessage(b.Cfg.Bot.ReportChannelID, discord.MessageCreate{
		Content: content,
	})
	return err
}
