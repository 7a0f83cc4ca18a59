package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	EventAPIBaseURL string
	EventAPIToken   string
	ServerPort      string
	DatabasePath    string
	Timezone        *time.Location
	TelegramToken   string
	CalDAVURL       string
	CalDAVUsername  string
	CalDAVPassword  string
	CalDAVCalendar  string
}

func Load() (*Config, error) {
	baseURL := os.Getenv("EVENT_API_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("EVENT_API_BASE_URL is required")
	}

	token := os.Getenv("EVENT_API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("EVENT_API_TOKEN is required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/eventdialog.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return &Config{
		EventAPIBaseURL: baseURL,
		EventAPIToken:   token,
		ServerPort:      port,
		DatabasePath:    dbPath,
		Timezone:        tz,
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		CalDAVURL:       os.Getenv("CALDAV_URL"),
		CalDAVUsername:  os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:  os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar:  os.Getenv("CALDAV_CALENDAR_PATH"),
	}, nil
}
