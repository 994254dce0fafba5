package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
)

// lexiconExtensions are the table formats the lexicon loader reads
var lexiconExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xlsm": true,
}

// FileValidator checks a run's input files and output directory before any
// network work starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// Preflight validates everything a run reads or writes on disk. A bad lexicon
// is a DATA error, missing credentials a CONFIG error and an unwritable
// results directory an IO error.
func (v *FileValidator) Preflight(paths *config.Paths) error {
	if err := v.ValidateLexiconFile(paths.LexiconFile); err != nil {
		return apperrors.NewDataError("lexicon file unusable", err).WithContext("path", paths.LexiconFile)
	}

	for _, f := range []string{paths.ProfileFile, paths.CredentialsFile} {
		if err := v.ValidateFile(f); err != nil {
			return apperrors.NewConfigError("reddit credentials unusable", err).WithContext("path", f)
		}
	}

	if err := v.ValidateOutputDirectory(paths.ResultsDir); err != nil {
		return apperrors.NewIOError("results directory unusable", err).WithContext("path", paths.ResultsDir)
	}

	v.logger.Info("Run inputs validated",
		slog.String("lexicon", paths.LexiconFile),
		slog.String("credentials", paths.CredentialsFile),
		slog.String("results_dir", paths.ResultsDir))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a probe file
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateLexiconFile checks the equities table exists and is a format the
// loader understands
func (v *FileValidator) ValidateLexiconFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !lexiconExtensions[ext] {
		v.logger.Error("Unsupported lexicon format",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a CSV or Excel file (extension: %s)", path, ext)
	}

	// Excel lock files left next to an open workbook
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	return nil
}
