package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DJN-1/discord-commit-bot/commitbot"
	"github.com/DJN-1/discord-commit-bot/commitbot/attendance"
	"github.com/DJN-1/discord-commit-bot/commitbot/commands"
	"github.com/DJN-1/discord-commit-bot/commitbot/database"
	"github.com/DJN-1/discord-commit-bot/commitbot/database/repositories"
	"github.com/DJN-1/discord-commit-bot/commitbot/github"
	"github.com/DJN-1/discord-commit-bot/commitbot/handlers"
	"github.com/DJN-1/discord-commit-bot/commitbot/logger"
	"github.com/DJN-1/discord-commit-bot/commitbot/services"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := commitbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting commit accountability bot",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		URI:      cfg.DB.URI,
		Database: cfg.DB.Database,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(ctx)
	}()

	b := commitbot.New(*cfg, version, commit)
	b.DB = db
	b.UserRepository = repositories.NewUserRepository(db)
	b.GitHub = github.NewWithBaseURL(cfg.GitHub.Token, cfg.GitHub.BaseURL)

	if cfg.Archive.Enabled {
		archive, err := services.NewReportArchive(
			cfg.Archive.Key,
			cfg.Archive.Secret,
			cfg.Archive.Region,
			cfg.Archive.Bucket,
			cfg.Archive.Prefix,
		)
		if err != nil {
			slog.Error("Failed to initialize report archive", slog.Any("error", err))
			os.Exit(-1)
		}
		b.Archive = archive
	}

	loc := cfg.Location()
	b.Attendance = attendance.NewService(b.GitHub, b.UserRepository, loc, cfg.Schedule.SkipWeekdays)
	b.Aggregator = attendance.NewAggregator(b.UserRepository, b.UserRepository, b)
	b.Scheduler = attendance.NewScheduler(b.Aggregator, b.Attendance, loc, attendance.ScheduleConfig{
		DailyHour:     cfg.Schedule.DailyHour,
		DailyMinute:   cfg.Schedule.DailyMinute,
		WeeklyWeekday: time.Weekday(cfg.Schedule.WeeklyWeekday),
		WeeklyHour:    cfg.Schedule.WeeklyHour,
		WeeklyMinute:  cfg.Schedule.WeeklyMinute,
	})

	h := handler.New()
	h.Command("/register", handlers.WrapWithLogging("register", commands.RegisterHandler(b)))
	h.Command("/verify", handlers.WrapWithLogging("verify", commands.VerifyHandler(b)))
	h.Command("/users", handlers.WrapWithLogging("users", commands.UsersHandler(b)))
	h.Command("/remove", handlers.WrapWithLogging("remove", commands.RemoveHandler(b)))
	h.Command("/edit", handlers.WrapWithLogging("edit", commands.EditHandler(b)))
	h.Command("/adjust-fails", handlers.WrapWithLogging("adjust-fails", commands.AdjustFailsHandler(b)))
	h.Command("/vacation", handlers.WrapWithLogging("vacation", commands.VacationHandler(b)))
	h.Command("/rank", handlers.WrapWithLogging("rank", commands.RankHandler(b)))
	h.Command("/weekly-status", handlers.WrapWithLogging("weekly-status", commands.WeeklyStatusHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	b.Scheduler.Start()
	defer b.Scheduler.Stop()

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
