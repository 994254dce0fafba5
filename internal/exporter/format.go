package exporter

import (
	"strconv"
	"time"

	"mentionscli/internal/config"
)

// formatCount formats a mention count for CSV output
func formatCount(n int) string {
	return strconv.Itoa(n)
}

// ReportFileName returns the report file name for a run started at t
func ReportFileName(t time.Time, format string) string {
	ext := config.ReportFormatCSV
	if format == config.ReportFormatXLSX {
		ext = config.ReportFormatXLSX
	}
	return config.ReportFilePrefix + t.Format(config.TimestampLayout) + "." + ext
}
