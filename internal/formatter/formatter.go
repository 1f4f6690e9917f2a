// package formatter renders account status reports to various formats (text, CSV, Markdown, XLSX)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// StatusRow is one account's line in a status report.
type StatusRow struct {
	ID       int
	Email    string
	Folder   string // empty when unassigned
	Uploaded int    // ledger uploaded_count
	Cap      int    // quota ceiling
	Eligible int    // upload-eligible files in the assigned folder
	Recorded int    // history records for this account
}

// Remaining returns how many uploads the account can still perform: bounded
// by both the quota ceiling and the eligible files in its folder.
func (r StatusRow) Remaining() int {
	byCap := r.Cap - r.Uploaded
	byFiles := r.Eligible - r.Uploaded
	remaining := min(byCap, byFiles)
	if remaining < 0 || r.Folder == "" {
		return 0
	}
	return remaining
}

// StatusReport is a point-in-time snapshot across all accounts.
type StatusReport struct {
	GeneratedAt time.Time
	Rows        []StatusRow
}

// Totals sums confirmed uploads and remaining capacity across all rows.
func (r *StatusReport) Totals() (uploaded, remaining int) {
	for _, row := range r.Rows {
		uploaded += row.Uploaded
		remaining += row.Remaining()
	}
	return uploaded, remaining
}

var statusHeaders = []string{"ID", "Email", "Folder", "Uploaded", "Cap", "Eligible", "Remaining"}

// Export dispatches on format: "text", "csv", "markdown" or "xlsx".
func Export(report *StatusReport, format string) ([]byte, error) {
	switch format {
	case "text", "":
		return ExportToText(report)
	case "csv":
		return ExportToCSV(report)
	case "markdown", "md":
		return ExportToMarkdown(report)
	case "xlsx":
		return ExportToXLSX(report)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportToCSV converts a StatusReport to CSV with one row per account.
func ExportToCSV(report *StatusReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(statusHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			strconv.Itoa(row.ID),
			row.Email,
			row.Folder,
			strconv.Itoa(row.Uploaded),
			strconv.Itoa(row.Cap),
			strconv.Itoa(row.Eligible),
			strconv.Itoa(row.Remaining()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a StatusReport to a Markdown table.
func ExportToMarkdown(report *StatusReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Account Status\n\n")
	buf.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.Format(time.RFC3339)))

	buf.WriteString("| ID | Email | Folder | Uploaded | Cap | Eligible | Remaining |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for _, row := range report.Rows {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %d | %d | %d |\n",
			row.ID, row.Email, row.Folder, row.Uploaded, row.Cap, row.Eligible, row.Remaining()))
	}

	uploaded, remaining := report.Totals()
	buf.WriteString(fmt.Sprintf("\n**Total uploaded**: %d\n**Total remaining**: %d\n", uploaded, remaining))

	return buf.Bytes(), nil
}

// ExportToText converts a StatusReport to aligned plain text.
func ExportToText(report *StatusReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Account status as of %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05")))
	buf.WriteString(fmt.Sprintf("%-4s %-32s %-24s %9s %5s %9s %10s\n",
		"ID", "EMAIL", "FOLDER", "UPLOADED", "CAP", "ELIGIBLE", "REMAINING"))

	for _, row := range report.Rows {
		folder := row.Folder
		if folder == "" {
			folder = "(unassigned)"
		}
		buf.WriteString(fmt.Sprintf("%-4d %-32s %-24s %9d %5d %9d %10d\n",
			row.ID, row.Email, folder, row.Uploaded, row.Cap, row.Eligible, row.Remaining()))
	}

	uploaded, remaining := report.Totals()
	buf.WriteString(fmt.Sprintf("\n%d accounts, %d uploaded, %d remaining\n", len(report.Rows), uploaded, remaining))

	return buf.Bytes(), nil
}

// ExportToXLSX converts a StatusReport to an Excel workbook.
func ExportToXLSX(report *StatusReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Status"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range statusHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range report.Rows {
		values := []any{row.ID, row.Email, row.Folder, row.Uploaded, row.Cap, row.Eligible, row.Remaining()}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
