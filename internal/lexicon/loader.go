package lexicon

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
)

// Loader reads the equities table into a Lexicon
type Loader struct {
	nameColumn   string
	tickerColumn string
	sheet        string
	logger       *slog.Logger
}

// NewLoader creates a loader for the configured column names
func NewLoader(cfg config.LexiconConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		nameColumn:   cfg.NameColumn,
		tickerColumn: cfg.TickerColumn,
		sheet:        cfg.Sheet,
		logger:       logger.With("component", "lexicon"),
	}
}

// LoadFile loads a .csv or .xlsx equities table
func (l *Loader) LoadFile(path string) (*Lexicon, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return l.loadExcel(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewDataError("cannot open lexicon", err).WithContext("path", path)
		}
		defer f.Close()

		lex, err := l.LoadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		return lex, nil
	}
}

// LoadCSV reads a CSV table with a header row
func (l *Loader) LoadCSV(r io.Reader) (*Lexicon, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewDataError("cannot parse lexicon csv", err)
	}
	return l.fromRows(rows)
}

func (l *Loader) loadExcel(path string) (*Lexicon, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataError("cannot open lexicon workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewDataError("lexicon workbook has no sheets", nil).WithContext("path", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewDataError("cannot read lexicon sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheet)
	}
	return l.fromRows(rows)
}

// fromRows locates the name and ticker columns in the header row and builds
// the Lexicon from the remaining rows.
func (l *Loader) fromRows(rows [][]string) (*Lexicon, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewDataError("lexicon is empty", nil)
	}

	nameIdx, tickerIdx := -1, -1
	for i, cell := range rows[0] {
		header := strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		switch {
		case strings.EqualFold(header, l.nameColumn):
			nameIdx = i
		case strings.EqualFold(header, l.tickerColumn):
			tickerIdx = i
		}
	}

	var missing []string
	if nameIdx < 0 {
		missing = append(missing, l.nameColumn)
	}
	if tickerIdx < 0 {
		missing = append(missing, l.tickerColumn)
	}
	if len(missing) > 0 {
		return nil, apperrors.NewDataError("lexicon is missing required columns", nil).
			WithContext("missing", missing).
			WithContext("header", rows[0])
	}

	b := newBuilder()
	skipped := 0
	for _, row := range rows[1:] {
		if nameIdx >= len(row) || tickerIdx >= len(row) || !b.add(row[nameIdx], row[tickerIdx]) {
			skipped++
		}
	}

	lex := b.build()
	l.logger.Info("Loaded lexicon",
		slog.Int("names", lex.Len()),
		slog.Int("tickers", len(lex.tickers)),
		slog.Int("skipped_rows", skipped),
		slog.Int("duplicate_names", b.duplicates))

	return lex, nil
}
