package exporter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"mentionscli/internal/config"
	apperrors "mentionscli/internal/errors"
	"mentionscli/pkg/contracts/domain"
)

// ReportHeaders is the header row of every mention report
var ReportHeaders = []string{"Ticker", "Mentions"}

const reportSheet = "Mentions"

// ReportExporter writes mention reports into the results directory
type ReportExporter struct {
	dir    string
	format string
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates an exporter writing format (csv or xlsx) files to dir
func NewReportExporter(dir, format string, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if format == "" {
		format = config.ReportFormatCSV
	}
	return &ReportExporter{
		dir:    dir,
		format: format,
		csv:    NewCSVWriter(dir, logger),
		logger: logger,
	}
}

// Export writes report to a new file named after its GeneratedAt time and
// returns the path. An existing file of the same name is never overwritten.
func (e *ReportExporter) Export(report domain.MentionReport) (string, error) {
	name := ReportFileName(report.GeneratedAt, e.format)

	var (
		path string
		err  error
	)
	switch e.format {
	case config.ReportFormatCSV:
		path, err = e.csv.WriteSimpleCSV(name, ReportHeaders, reportRecords(report.Rows))
	case config.ReportFormatXLSX:
		path, err = e.writeXLSX(e.csv.resolvePath(name), report.Rows)
	default:
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported report format %q", e.format), nil)
	}

	if err != nil {
		ioErr := apperrors.NewIOError("failed to write report", err).
			WithContext("dir", e.dir).
			WithContext("file", name)
		if errors.Is(err, os.ErrExist) {
			ioErr.Message = "report file already exists"
		}
		return "", ioErr
	}

	e.logger.Info("Exported mention report",
		slog.String("path", path),
		slog.String("format", e.format),
		slog.Int("rows", len(report.Rows)),
		slog.String("submission_id", report.SubmissionID))

	return path, nil
}

func reportRecords(rows []domain.MentionRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Ticker, formatCount(r.Mentions)})
	}
	return records
}

func (e *ReportExporter) writeXLSX(path string, rows []domain.MentionRow) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(ReportHeaders))
	for i, h := range ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(reportSheet, cell, &[]interface{}{r.Ticker, r.Mentions}); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	e.logger.Info("Writing XLSX file",
		slog.String("full_path", path),
		slog.Int("record_count", len(rows)))

	file, err := createFile(path, true)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := f.WriteTo(file); err != nil {
		return "", fmt.Errorf("failed to write workbook: %w", err)
	}
	return path, file.Close()
}
