package commons

import "time"

const (
	DefaultServerPort      = 8080
	DefaultNBUBaseURL      = "https://bank.gov.ua/NBUStatService/v1/statdirectory"
	DefaultNBUTimeout      = 10 * time.Second
	DefaultTimezone        = "Europe/Kyiv"
	DefaultCredentialsFile = "credentials.json"
	DefaultSheetsDocument  = "currency_rates"
	DefaultSinkTimeout     = 30 * time.Second
	DefaultRateCacheTTL    = 24 * time.Hour
	AllowedRPS             = 10
	RowSinkSheets          = "sheets"
	RowSinkPostgres        = "postgres"
	ServerIdleTimeout      = time.Minute
	ServerReadTimeout      = 10 * time.Second
	ServerWriteTimeout     = 2 * time.Minute
	ServerShutdownTimeout  = 10 * time.Second
	WorkerShutdownTimeout  = 30 * time.Second
	LoggerShutdownTimeout  = 5 * time.Second
	ServiceName            = "NBU Currency Rates API"
	StatusSuccess          = "success"
	StatusError            = "error"
)
