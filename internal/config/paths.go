package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir    string
	DataDir    string
	ResultsDir string
	LogsDir    string
	ConfigDir  string

	// Input files
	LexiconFile     string
	CredentialsFile string
	ProfileFile     string

	// Well-known output files
	MetricsFile string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths lays out every path under baseDir.
//
// Directory structure:
//
//	base/
//	  ├── .config/
//	  │   ├── praw.ini       (credential profiles)
//	  │   └── reddit_name    (name of the profile to use)
//	  ├── .logs/             (one log file per run)
//	  ├── data/
//	  │   └── constituents.csv
//	  └── results/           (equity_mentions_<ts>.csv, mentions.prom)
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, DefaultDataDir)
	resultsDir := filepath.Join(baseDir, DefaultResultsDir)
	configDir := filepath.Join(baseDir, DefaultConfigDir)

	return &Paths{
		BaseDir:    baseDir,
		DataDir:    dataDir,
		ResultsDir: resultsDir,
		LogsDir:    filepath.Join(baseDir, DefaultLogsDir),
		ConfigDir:  configDir,

		LexiconFile:     filepath.Join(dataDir, DefaultLexiconFile),
		CredentialsFile: filepath.Join(configDir, DefaultCredentialsFile),
		ProfileFile:     filepath.Join(configDir, DefaultProfileFile),

		MetricsFile: filepath.Join(resultsDir, DefaultMetricsFile),
	}
}

// EnsureDirectories creates the output directories if they don't exist.
// Input directories are left alone; a missing lexicon is reported by the loader.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ResultsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// Resolve returns path unchanged when absolute, otherwise joined onto BaseDir.
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.BaseDir, path)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetRunLogPath returns the log file for a run started at start,
// e.g. .logs/2024-05-01_16-30-00.log
func (p *Paths) GetRunLogPath(start time.Time) string {
	return p.GetLogPath(start.Format(TimestampLayout) + ".log")
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("results", p.ResultsDir),
			slog.String("logs", p.LogsDir),
			slog.String("config", p.ConfigDir),
		),
		slog.Group("files",
			slog.String("lexicon", p.LexiconFile),
			slog.String("credentials", p.CredentialsFile),
			slog.String("profile", p.ProfileFile),
			slog.String("metrics", p.MetricsFile),
		))
}
