package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func testReport() *StatusReport {
	return &StatusReport{
		GeneratedAt: time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
		Rows: []StatusRow{
			{ID: 1, Email: "one@test.com", Folder: "folder_a", Uploaded: 10, Cap: 50, Eligible: 40, Recorded: 10},
			{ID: 2, Email: "two@test.com", Folder: "", Uploaded: 0, Cap: 50, Eligible: 0, Recorded: 0},
			{ID: 3, Email: "three@test.com", Folder: "folder_b", Uploaded: 50, Cap: 50, Eligible: 60, Recorded: 50},
		},
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		row  StatusRow
		want int
	}{
		{"BoundedByCap", StatusRow{Folder: "f", Uploaded: 45, Cap: 50, Eligible: 100}, 5},
		{"BoundedByFiles", StatusRow{Folder: "f", Uploaded: 10, Cap: 50, Eligible: 15}, 5},
		{"AtQuota", StatusRow{Folder: "f", Uploaded: 50, Cap: 50, Eligible: 100}, 0},
		{"OverQuota", StatusRow{Folder: "f", Uploaded: 60, Cap: 50, Eligible: 100}, 0},
		{"NoFolder", StatusRow{Folder: "", Uploaded: 0, Cap: 50, Eligible: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	report := testReport()
	uploaded, remaining := report.Totals()
	if uploaded != 60 {
		t.Errorf("Expected 60 uploaded, got %d", uploaded)
	}
	// Row 1 has 30 remaining (eligible bound), rows 2 and 3 have none.
	if remaining != 30 {
		t.Errorf("Expected 30 remaining, got %d", remaining)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testReport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Email,Folder,Uploaded,Cap,Eligible,Remaining") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,one@test.com,folder_a,10,50,40,30") {
			t.Errorf("CSV missing account row, got: %s", output)
		}
		if !strings.Contains(output, "2,two@test.com,,0,50,0,0") {
			t.Errorf("CSV missing unassigned account row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testReport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Account Status") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "| 1 | one@test.com | folder_a | 10 | 50 | 40 | 30 |") {
			t.Errorf("Markdown missing account row, got: %s", output)
		}
		if !strings.Contains(output, "**Total uploaded**: 60") {
			t.Errorf("Markdown missing totals")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testReport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "one@test.com") {
			t.Errorf("Text missing account email")
		}
		if !strings.Contains(output, "(unassigned)") {
			t.Errorf("Text should mark accounts without a folder")
		}
		if !strings.Contains(output, "3 accounts, 60 uploaded, 30 remaining") {
			t.Errorf("Text missing totals line, got: %s", output)
		}
	})

	t.Run("ExportToXLSX", func(t *testing.T) {
		data, err := ExportToXLSX(testReport())
		if err != nil {
			t.Fatalf("ExportToXLSX failed: %v", err)
		}

		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Workbook should open: %v", err)
		}
		defer f.Close()

		rows, err := f.GetRows("Status")
		if err != nil {
			t.Fatalf("GetRows failed: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("Expected header plus 3 rows, got %d", len(rows))
		}
		if rows[0][0] != "ID" || rows[0][1] != "Email" {
			t.Errorf("Unexpected headers: %v", rows[0])
		}
		if rows[1][1] != "one@test.com" || rows[1][6] != "30" {
			t.Errorf("Unexpected first row: %v", rows[1])
		}
	})

	t.Run("Dispatch", func(t *testing.T) {
		for _, format := range []string{"text", "", "csv", "markdown", "md", "xlsx"} {
			if _, err := Export(testReport(), format); err != nil {
				t.Errorf("Export(%q) failed: %v", format, err)
			}
		}
		if _, err := Export(testReport(), "pdf"); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}
