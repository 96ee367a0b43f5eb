package settlement

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Column headers expected in an Amazon Relay settlement sheet.
const (
	ColTripID    = "Trip ID"
	ColLoadID    = "Load ID"
	ColGrossPay  = "Gross Pay"
	ColRoute     = "Route"
	ColStartDate = "Start Date"
	ColEndDate   = "End Date"
	ColDistance  = "Distance (Mi)"
	ColItemType  = "Item Type"

	// ItemTypeCompleted marks a completed-trip line item. Adjustments, bonuses
	// and fees carry other item types and are skipped by this reconciliation.
	ItemTypeCompleted = "LOAD - COMPLETED"
)

// RequiredColumns must all be present or the batch fails before any row is read.
// Item Type is deliberately not required: sheets without it are treated as
// all-completed line items.
var RequiredColumns = []string{
	ColTripID, ColLoadID, ColGrossPay, ColRoute, ColStartDate, ColEndDate, ColDistance,
}

const maxXLSRows = 65536

var ErrUnsupportedFileType = errors.New("only Excel files (.xlsx, .xls) are accepted")

// SchemaError reports required columns missing from the sheet header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "settlement file is missing required columns: " + strings.Join(e.Missing, ", ")
}

// Row is one settlement line with its cells still raw. Cleaning happens during
// aggregation so malformed cells can be logged with group context.
type Row struct {
	TripID    string
	LoadID    string
	GrossPay  string
	Route     string
	StartDate string
	EndDate   string
	Distance  string
	ItemType  string
}

// Table is the validated shape of an uploaded sheet.
type Table struct {
	Rows        []Row
	HasItemType bool
}

// ParseTable reads the first sheet of an uploaded workbook into raw records.
func ParseTable(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("reading sheet: %w", err)
		}
		return rows, nil
	case ".xls":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		return wb.ReadAllCells(maxXLSRows), nil
	default:
		return nil, ErrUnsupportedFileType
	}
}

// BuildRows validates the header and types the remaining records. It fails with
// a SchemaError naming every missing column; no rows are produced in that case.
func BuildRows(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, &SchemaError{Missing: RequiredColumns}
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	itemTypeIdx, hasItemType := index[ColItemType]

	table := &Table{
		Rows:        make([]Row, 0, len(records)-1),
		HasItemType: hasItemType,
	}
	for _, rec := range records[1:] {
		row := Row{
			TripID:    cell(rec, index[ColTripID]),
			LoadID:    cell(rec, index[ColLoadID]),
			GrossPay:  cell(rec, index[ColGrossPay]),
			Route:     cell(rec, index[ColRoute]),
			StartDate: cell(rec, index[ColStartDate]),
			EndDate:   cell(rec, index[ColEndDate]),
			Distance:  cell(rec, index[ColDistance]),
		}
		if hasItemType {
			row.ItemType = cell(rec, itemTypeIdx)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// cell guards against ragged rows, which excel exports produce for trailing blanks.
func cell(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
