package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type GSheetConfig struct {
	SheetID          string `toml:"sheet_id"`
	SheetName        string `toml:"sheet_name"`
	CredentialsPath  string `toml:"credentials_path"`
	LeaderboardRange string `toml:"leaderboard_range"`
	TimestampRange   string `toml:"timestamp_range"`
	Schedule         string `toml:"schedule"`
}

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	API struct {
		ResponderIDHeader string         `toml:"responder_id_header"`
		RequiredHeaders   []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Events struct {
		Enabled         bool   `toml:"enabled"`
		RedisURL        string `toml:"redis_url"`
		ChannelTemplate string `toml:"channel_template"`
	} `toml:"events"`

	Poll struct {
		WindowStart   string `toml:"window_start"`
		WindowMinutes int    `toml:"window_minutes"`
	} `toml:"poll"`

	Retention struct {
		Days int `toml:"days"`
	} `toml:"retention"`

	Analytics struct {
		WindowDays int            `toml:"window_days"`
		GSheets    []GSheetConfig `toml:"gsheets"`
	} `toml:"analytics"`

	Display struct {
		TimestampFormat string `toml:"timestamp_format"`
	} `toml:"display"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	if config.API.ResponderIDHeader == "" {
		config.API.ResponderIDHeader = "X-User-Id"
	}
	if config.Poll.WindowStart == "" {
		config.Poll.WindowStart = "13:00"
	}
	if _, err := time.Parse("15:04", config.Poll.WindowStart); err != nil {
		return nil, fmt.Errorf("invalid poll.window_start %q, expected HH:MM: %w", config.Poll.WindowStart, err)
	}
	if config.Poll.WindowMinutes <= 0 {
		config.Poll.WindowMinutes = 2
	}
	if config.Retention.Days <= 0 {
		config.Retention.Days = 30
	}
	if config.Analytics.WindowDays <= 0 {
		config.Analytics.WindowDays = 7
	}
	if config.Display.TimestampFormat == "" {
		config.Display.TimestampFormat = "YYYY-MM-DD HH24:MI"
	}

	logger.Debug.Printf("Loaded poll window config: %+v", config.Poll)

	return &config, nil
}
