package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrBadFormat means the content is not a recognized spreadsheet container.
	ErrBadFormat = errors.New("unrecognized spreadsheet format")
	// ErrNoRows means the first sheet has no data rows after the header.
	ErrNoRows = errors.New("spreadsheet has no data rows")
)

// Expected column headers in the first row of the first sheet. Columns are
// matched by header name, not position.
const (
	colRecipientName  = "수취인명"
	colPhone          = "전화번호"
	colCarrierName    = "택배사명"
	colTrackingNumber = "운송장번호"
	colProductName    = "상품명"
)

// UploadRow is one data row as read from the spreadsheet, untouched apart from
// header mapping. Ordinal is 1-based with the header row excluded.
type UploadRow struct {
	Ordinal        int
	RecipientName  string
	Phone          string
	CarrierName    string
	TrackingNumber string
	ProductName    string
}

// Container magic bytes: OOXML spreadsheets are zip archives, legacy Excel
// files are OLE2 compound documents.
var (
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// ReadRows decodes raw spreadsheet content into data rows in file order, using
// the first sheet's first row as the column-name header. A header that is
// absent surfaces as empty fields on every row (and fails per row downstream)
// rather than aborting the whole file.
func ReadRows(content []byte) ([]UploadRow, error) {
	var raw [][]string
	var err error
	switch {
	case bytes.HasPrefix(content, zipMagic):
		raw, err = decodeXLSX(content)
	case bytes.HasPrefix(content, oleMagic):
		raw, err = decodeXLS(content)
	default:
		return nil, ErrBadFormat
	}
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrNoRows
	}

	cols := headerIndex(raw[0])

	var rows []UploadRow
	for _, cells := range raw[1:] {
		row := UploadRow{
			RecipientName:  cell(cells, cols, colRecipientName),
			Phone:          cell(cells, cols, colPhone),
			CarrierName:    cell(cells, cols, colCarrierName),
			TrackingNumber: cell(cells, cols, colTrackingNumber),
			ProductName:    cell(cells, cols, colProductName),
		}
		if row == (UploadRow{}) {
			// fully blank line, carries no ordinal
			continue
		}
		row.Ordinal = len(rows) + 1
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func decodeXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return rows, nil
}

func decodeXLS(content []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoRows
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// headerIndex maps known header names to their column position. Unknown
// headers are ignored; missing ones are simply absent from the map.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// cell reads one named column, tolerating short rows and missing headers.
// Values are trimmed so whitespace-only cells count as missing.
func cell(cells []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
