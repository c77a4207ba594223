package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// SheetRow is one calendar day line of a monthly attendance sheet.
type SheetRow struct {
	Date     string
	Kind     string
	CheckIn  string
	CheckOut string
	Status   string
}

func (r SheetRow) cells() []string {
	return []string{r.Date, r.Kind, r.CheckIn, r.CheckOut, r.Status}
}

// SheetTotals is the closing line of a sheet.
type SheetTotals struct {
	WorkingDays   int
	HolidayCount  int
	AttendedDays  int
	LeaveDays     int
	AttendancePct int
}

func (t SheetTotals) cells() []string {
	return []string{
		"Totals",
		fmt.Sprintf("working=%d holidays=%d", t.WorkingDays, t.HolidayCount),
		fmt.Sprintf("attended=%d", t.AttendedDays),
		fmt.Sprintf("leave=%d", t.LeaveDays),
		fmt.Sprintf("%d%%", t.AttendancePct),
	}
}

// Sheet is one person-month of attendance ready for rendering.
type Sheet struct {
	Title  string
	Rows   []SheetRow
	Totals SheetTotals
}

func sheetHeaders() []string {
	return []string{"Date", "Kind", "Check In", "Check Out", "Status"}
}

// CSVExporter renders a monthly sheet into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes: a header line, one line per day,
// then the totals line.
func (e *CSVExporter) Render(sheet Sheet) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(sheetHeaders()); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range sheet.Rows {
		if err := writer.Write(row.cells()); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", row.Date, err)
		}
	}
	if err := writer.Write(sheet.Totals.cells()); err != nil {
		return nil, fmt.Errorf("write csv totals: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
