package config

import (
	"time"

	"mentionscli/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "mentions"
	AppVersion = contracts.Version

	// Environment variable prefix, e.g. MENTIONS_LOGGING_LEVEL
	EnvPrefix = "MENTIONS"

	// File Paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultResultsDir = "results"
	DefaultLogsDir    = ".logs"
	DefaultConfigDir  = ".config"

	DefaultLexiconFile     = "constituents.csv"
	DefaultCredentialsFile = "praw.ini"
	DefaultProfileFile     = "reddit_name"
	DefaultMetricsFile     = "mentions.prom"

	// TimestampLayout is used for log and report file names
	TimestampLayout = "2006-01-02_15-04-05"

	// Lexicon columns
	DefaultNameColumn   = "Security"
	DefaultTickerColumn = "Symbol"

	// Report
	ReportFilePrefix = "equity_mentions_"
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"

	// Reddit
	DefaultSubreddit   = "wallstreetbets"
	DefaultTitleMarker = "what are your moves tomorrow"
	DefaultHotLimit    = 10
	RedditTokenURL     = "https://www.reddit.com/api/v1/access_token"
	RedditAPIBaseURL   = "https://oauth.reddit.com"

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "both"
)
