package commons

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	ServerPort      uint16
	NBUBaseURL      string
	NBUTimeout      time.Duration
	Location        *time.Location
	RowSink         string
	CredentialsFile string
	SheetsDocument  string
	SpreadsheetID   string
	SinkTimeout     time.Duration
	PostgresConn    string
	LogToPostgres   bool
	RedisAddr       string
	RedisPass       string
	RateCacheTTL    time.Duration
	AllowedRPS      int
	UpdateSchedule  string
}

const (
	decimalBase = 10
	bitSize     = 16
)

func LoadConfig() (Config, error) {
	config := Config{
		ServerPort:      DefaultServerPort,
		NBUBaseURL:      envOr("NBU_BASE_URL", DefaultNBUBaseURL),
		RowSink:         strings.ToLower(envOr("ROW_SINK", RowSinkSheets)),
		CredentialsFile: envOr("GOOGLE_CREDENTIALS_FILE", DefaultCredentialsFile),
		SheetsDocument:  envOr("SHEETS_DOCUMENT_NAME", DefaultSheetsDocument),
		SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		UpdateSchedule:  os.Getenv("UPDATE_SCHEDULE"),
	}
	var errors []string

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort != "" {
		parsedServerPort, err := strconv.ParseUint(serverPort, decimalBase, bitSize)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid SERVER_PORT: %s", err))
		} else {
			config.ServerPort = uint16(parsedServerPort)
		}
	}

	config.NBUTimeout = durationEnv("NBU_TIMEOUT", DefaultNBUTimeout, &errors)
	config.SinkTimeout = durationEnv("SINK_TIMEOUT", DefaultSinkTimeout, &errors)
	config.RateCacheTTL = durationEnv("RATE_CACHE_TTL", DefaultRateCacheTTL, &errors)

	loc, err := time.LoadLocation(envOr("TIMEZONE", DefaultTimezone))
	if err != nil {
		errors = append(errors, fmt.Sprintf("invalid TIMEZONE: %s", err))
	}
	config.Location = loc

	config.AllowedRPS = AllowedRPS
	if rps := os.Getenv("ALLOWED_RPS"); rps != "" {
		parsed, err := strconv.Atoi(rps)
		if err != nil || parsed <= 0 {
			errors = append(errors, fmt.Sprintf("invalid ALLOWED_RPS: %q", rps))
		} else {
			config.AllowedRPS = parsed
		}
	}

	if v := os.Getenv("LOG_TO_POSTGRES"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid LOG_TO_POSTGRES: %s", err))
		}
		config.LogToPostgres = parsed
	}

	switch config.RowSink {
	case RowSinkSheets:
		if config.SheetsDocument == "" && config.SpreadsheetID == "" {
			errors = append(errors, "SHEETS_DOCUMENT_NAME or SHEETS_SPREADSHEET_ID must be set")
		}
	case RowSinkPostgres:
	default:
		errors = append(errors, fmt.Sprintf("invalid ROW_SINK: %q", config.RowSink))
	}

	if config.RowSink == RowSinkPostgres || config.LogToPostgres {
		config.PostgresConn = postgresConn(&errors)
	}

	if len(errors) > 0 {
		for _, err := range errors {
			fmt.Println("Configuration Error:", err)
		}
		return Config{}, fmt.Errorf("configuration errors occurred")
	}

	return config, nil
}

func postgresConn(errors *[]string) string {
	pg_user := os.Getenv("POSTGRES_USER")
	if pg_user == "" {
		*errors = append(*errors, "POSTGRES_USER is not set")
	}

	pg_pass := os.Getenv("POSTGRES_PASSWORD")
	if pg_pass == "" {
		*errors = append(*errors, "POSTGRES_PASSWORD is not set")
	}

	pg_host := os.Getenv("POSTGRES_HOST")
	if pg_host == "" {
		*errors = append(*errors, "POSTGRES_HOST is not set")
	}

	pg_port := os.Getenv("POSTGRES_PORT")
	if pg_port == "" {
		*errors = append(*errors, "POSTGRES_PORT is not set")
	}

	pg_db := os.Getenv("POSTGRES_NAME")
	if pg_db == "" {
		*errors = append(*errors, "POSTGRES_NAME is not set")
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pg_user, pg_pass, pg_host, pg_port, pg_db)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration, errors *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errors = append(*errors, fmt.Sprintf("invalid %s: %q", key, v))
		return fallback
	}
	return d
}
