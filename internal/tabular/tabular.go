// Package tabular turns spreadsheet uploads and pasted text tables into records.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/edudesk/contentdesk/internal/helpers"
	"github.com/edudesk/contentdesk/internal/value"
)

// headerScanRows is how many leading rows are considered when looking for the header.
const headerScanRows = 10

var (
	// ErrEmpty is returned for an upload without rows.
	ErrEmpty = errors.New("no rows found")
	// ErrUnsupported is returned for a file kind that cannot be read as a table.
	ErrUnsupported = errors.New("unsupported file type")
)

// Dataset is a table read from an upload: the detected header and one group per
// data row, keyed by header in header order.
type Dataset struct {
	Headers []string   `json:"headers"`
	Records value.List `json:"records"`
}

// DetectHeader returns the index of the header row: the first of the leading rows in
// which more than half of the cells are filled. It defaults to 0.
func DetectHeader(rows [][]string) int {
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		filled := 0
		for _, cell := range rows[i] {
			if strings.TrimSpace(cell) != "" {
				filled++
			}
		}
		if filled*2 > len(rows[i]) {
			return i
		}
	}
	return 0
}

// Build detects the header of rows and converts every following row to a record.
// Short rows are padded with empty strings, and cells beyond the header are dropped.
func Build(rows [][]string) (Dataset, error) {
	if len(rows) == 0 {
		return Dataset{}, ErrEmpty
	}

	idx := DetectHeader(rows)
	headers := make([]string, len(rows[idx]))
	for i, h := range rows[idx] {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("column_%d", i+1)
		}
	}

	records := make(value.List, 0, len(rows)-idx-1)
	for _, row := range rows[idx+1:] {
		var rec value.Group
		for i, h := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			rec = rec.Set(h, value.String(cell))
		}
		records = append(records, rec)
	}
	return Dataset{Headers: headers, Records: records}, nil
}

// ReadCSV reads a CSV stream. Rows may have differing cell counts.
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return Build(rows)
}

// ReadXLSX reads one sheet of a workbook. An empty sheet name selects the first sheet.
func ReadXLSX(r io.Reader, sheet string) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Dataset{}, ErrEmpty
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return Build(rows)
}

// ReadFile reads a CSV or XLSX file, choosing the reader by extension.
func ReadFile(path, sheet string) (Dataset, error) {
	kind := helpers.FileKind(path)
	if kind != helpers.KindCSV && kind != helpers.KindXLSX {
		return Dataset{}, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if kind == helpers.KindXLSX {
		return ReadXLSX(f, sheet)
	}
	return ReadCSV(f)
}

var simpleTableSplit = regexp.MustCompile(`\t|\s{2,}`)

// ParseSimpleTable parses pasted text whose first line holds the headers and whose
// columns are separated by tabs or runs of two or more spaces. Lines whose cell count
// differs from the header are skipped.
func ParseSimpleTable(text string) value.List {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	headers := splitCells(lines[0])
	if len(headers) == 0 {
		return nil
	}

	var out value.List
	for _, line := range lines[1:] {
		cells := splitCells(line)
		if len(cells) != len(headers) {
			continue
		}
		var row value.Group
		for i, cell := range cells {
			row = row.Set(headers[i], value.String(cell))
		}
		out = append(out, row)
	}
	return out
}

func splitCells(line string) []string {
	var cells []string
	for _, part := range simpleTableSplit.Split(line, -1) {
		if part = strings.TrimSpace(part); part != "" {
			cells = append(cells, part)
		}
	}
	return cells
}
