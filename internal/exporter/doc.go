// Package exporter writes mention reports to the results directory.
//
// CSVWriter is the low-level writer: headers, records, optional UTF-8 BOM,
// and exclusive creation so a report is never overwritten.
//
// ReportExporter names each report after the run's start time
// (equity_mentions_2006-01-02_15-04-05.csv) and writes it as CSV or, when
// configured, as an xlsx workbook with a single "Mentions" sheet.
//
// Example usage:
//
//	exp := exporter.NewReportExporter(paths.ResultsDir, cfg.Report.Format, logger)
//	path, err := exp.Export(report)
package exporter
