// Package parser turns raw spreadsheet rows into normalized source rows.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lotkeeper/lotkeeper/internal/inventory/domain"
)

// Column layout of the dealer spreadsheet. The sheet's own header row is
// ignored; positions are the contract.
const (
	colStatus = iota
	colStockNumber
	colVIN
	colYear
	colMake
	colModel
	colMileage
	colPrice
	colExteriorColor
	colInteriorColor
	colDescription
	colNotes
	colImageFirst
)

// imageColumns is how many image cells follow colNotes. The cell after the
// last image column, when present, carries the provider code.
const imageColumns = 6

const colCount = colImageFirst + imageColumns + 1

var rejectedStatuses = map[string]struct{}{
	"sold":          {},
	"needs removed": {},
}

// ParseRow normalizes one spreadsheet row. Rejected rows return an error
// wrapping domain.ErrRowRejected; anything else that comes back non-nil is a
// real failure.
func ParseRow(cells []string) (*domain.SourceRow, error) {
	padded := make([]string, colCount)
	for i := range padded {
		if i < len(cells) {
			padded[i] = strings.TrimSpace(cells[i])
		}
	}

	status := padded[colStatus]
	if _, drop := rejectedStatuses[strings.ToLower(status)]; drop {
		return nil, fmt.Errorf("%w: status %q", domain.ErrRowRejected, status)
	}

	row := &domain.SourceRow{
		Status:        status,
		StockNumber:   padded[colStockNumber],
		VIN:           strings.ToUpper(padded[colVIN]),
		Year:          parseInt(padded[colYear]),
		Make:          padded[colMake],
		Model:         padded[colModel],
		Mileage:       parseInt(padded[colMileage]),
		Price:         parsePrice(padded[colPrice]),
		ExteriorColor: padded[colExteriorColor],
		InteriorColor: padded[colInteriorColor],
		Description:   padded[colDescription],
		Notes:         padded[colNotes],
		ProviderCode:  padded[colImageFirst+imageColumns],
	}

	for i := colImageFirst; i < colImageFirst+imageColumns; i++ {
		if padded[i] != "" {
			row.ImageRefs = append(row.ImageRefs, padded[i])
		}
	}

	if row.Year == 0 || row.Make == "" || row.Model == "" {
		return nil, fmt.Errorf("%w: missing year/make/model", domain.ErrRowRejected)
	}
	if row.Price <= 0 {
		return nil, fmt.Errorf("%w: non-positive price", domain.ErrRowRejected)
	}

	return row, nil
}

// ParseSheet splits pasted tab-separated text into raw rows. A leading header
// row (first cell "status") is dropped; blank lines are dropped.
func ParseSheet(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][colStatus]), "status") {
		rows = rows[1:]
	}
	return rows
}

// parseInt coerces permissively: commas and stray text collapse to zero
// rather than failing the row.
func parseInt(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// parsePrice strips currency formatting before coercion.
func parsePrice(s string) int64 {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}
