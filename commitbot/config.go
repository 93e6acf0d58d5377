package commitbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := defaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Schedule: ScheduleConfig{
			Timezone:      "Asia/Seoul",
			DailyHour:     23,
			DailyMinute:   59,
			WeeklyWeekday: int(time.Thursday),
			WeeklyHour:    0,
			WeeklyMinute:  0,
			SkipWeekdays:  []int{int(time.Saturday), int(time.Sunday)},
		},
	}
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Bot      BotConfig      `toml:"bot"`
	GitHub   GitHubConfig   `toml:"github"`
	DB       DBConfig       `toml:"db"`
	Schedule ScheduleConfig `toml:"schedule"`
	Archive  ArchiveConfig  `toml:"archive"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type BotConfig struct {
	DevGuilds       []snowflake.ID `toml:"dev_guilds"`
	Token           string         `toml:"token"`
	ReportChannelID snowflake.ID   `toml:"report_channel_id"`
}

type GitHubConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

type DBConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ScheduleConfig places the two periodic triggers on the wall clock.
// Weekdays follow time.Weekday numbering (Sunday = 0).
type ScheduleConfig struct {
	Timezone      string `toml:"timezone"`
	DailyHour     int    `toml:"daily_hour"`
	DailyMinute   int    `toml:"daily_minute"`
	WeeklyWeekday int    `toml:"weekly_weekday"`
	WeeklyHour    int    `toml:"weekly_hour"`
	WeeklyMinute  int    `toml:"weekly_minute"`
	SkipWeekdays  []int  `toml:"skip_weekdays"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Key     string `toml:"key"`
	Secret  string `toml:"secret"`
	Region  string `toml:"region"`
	Bucket  string `toml:"bucket"`
	Prefix  string `toml:"prefix"`
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required")
	}
	if c.Bot.ReportChannelID == 0 {
		return fmt.Errorf("bot.report_channel_id is required")
	}
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token is required")
	}
	if c.DB.URI == "" {
		return fmt.Errorf("db.uri is required")
	}
	if c.DB.Database == "" {
		return fmt.Errorf("db.database is required")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone %q is invalid: %w", c.Schedule.Timezone, err)
	}
	if c.Schedule.DailyHour < 0 || c.Schedule.DailyHour > 23 || c.Schedule.DailyMinute < 0 || c.Schedule.DailyMinute > 59 {
		return fmt.Errorf("schedule daily instant %02d:%02d is out of range", c.Schedule.DailyHour, c.Schedule.DailyMinute)
	}
	if c.Schedule.WeeklyWeekday < 0 || c.Schedule.WeeklyWeekday > 6 {
		return fmt.Errorf("schedule.weekly_weekday %d is out of range", c.Schedule.WeeklyWeekday)
	}
	if c.Archive.Enabled && (c.Archive.Key == "" || c.Archive.Secret == "" || c.Archive.Bucket == "") {
		return fmt.Errorf("archive is enabled but key, secret or bucket is missing")
	}
	return nil
}

// Location resolves the configured civil timezone. validate has already
// checked it loads.
func (c *Config) Location() *time.Location {
	loc, _ := time.LoadLocation(c.Schedule.Timezone)
	return loc
}
