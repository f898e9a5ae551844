// Package export writes the visible entries of a month as CSV or XLSX.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/ttdash/internal/dashboard"
)

// Formats.
const (
	CSV  = "csv"
	XLSX = "xlsx"
)

// Header is the column row of every export.
var Header = []string{"Date", "Project", "Scope", "Task/Ticket", "Duration", "Notes"}

// SheetName is the XLSX worksheet holding the rows.
const SheetName = "Entries"

// Row is one exported entry.
type Row struct {
	Date     string
	Project  string
	Scope    string
	Item     string
	Duration string
	Notes    string
}

func (r Row) fields() []string {
	return []string{r.Date, r.Project, r.Scope, r.Item, r.Duration, r.Notes}
}

// Rows returns one row per visible entry in visible week and day order.
func Rows(v dashboard.MonthView) []Row {
	var rows []Row
	for _, e := range v.VisibleEntries() {
		rows = append(rows, Row{
			Date:     e.Date,
			Project:  e.Project,
			Scope:    e.Scope.Name(),
			Item:     e.Item,
			Duration: e.Duration,
			Notes:    e.Notes,
		})
	}
	return rows
}

// Filename returns e.g. "time-entries-May-2025.csv".
func Filename(year int, month time.Month, format string) string {
	return fmt.Sprintf("time-entries-%s-%d.%s", month, year, format)
}

// quote wraps a field in double quotes, doubling inner quotes and flattening
// line breaks to spaces.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, `""`)
	return `"` + s + `"`
}

// WriteCSV writes the header and rows separated by CRLF. Every field but the
// date is quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	lines := []string{strings.Join(Header, ",")}
	for _, r := range rows {
		fields := r.fields()
		for i := 1; i < len(fields); i++ {
			fields[i] = quote(fields[i])
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\r\n")); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// WriteXLSX writes the header and rows to the Entries sheet of a new workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	put := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		vals := make([]any, len(values))
		for i, v := range values {
			vals[i] = v
		}
		return f.SetSheetRow(SheetName, cell, &vals)
	}
	if err := put(1, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		if err := put(i+2, r.fields()); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(SheetName, "B", "D", 28); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "F", "F", 60); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing XLSX: %w", err)
	}
	return nil
}

// ToFile writes the visible entries of v into dir and returns the path and
// the number of rows. Nothing is written when no entry is visible.
func ToFile(dir string, v dashboard.MonthView, format string) (string, int, error) {
	rows := Rows(v)
	if len(rows) == 0 {
		return "", 0, nil
	}

	var write func(io.Writer, []Row) error
	switch format {
	case CSV:
		write = WriteCSV
	case XLSX:
		write = WriteXLSX
	default:
		return "", 0, fmt.Errorf("unknown export format %q (want csv or xlsx)", format)
	}

	path := filepath.Join(dir, Filename(v.Year, v.Month, format))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, rows); err != nil {
		f.Close()
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("closing %s: %w", path, err)
	}
	return path, len(rows), nil
}
