package sheets

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"boothorders/internal/model"
)

// Column headers of the Orders worksheet.
const (
	colBooth     = "Booth #"
	colExhibitor = "Exhibitor Name"
	colItem      = "Item"
	colDate      = "Date"
	colColor     = "Color"
	colQuantity  = "Quantity"
	colStatus    = "Status"
	colComments  = "Comments"
	colSection   = "Section"
	colType      = "Type"
	colUser      = "User"
	colHour      = "Hour"
)

const (
	headerMarker      = "Booth"
	defaultQuantity   = 1
	DataSourceSheet   = "Google Sheets"
	descriptionPrefix = "Order from Google Sheets: "
)

// Parse turns a raw worksheet grid into orders. The header is the first row
// with a cell containing "Booth", or row 0 when no row does. Rows without a
// booth number or exhibitor name are skipped.
func Parse(grid [][]string) []model.Order {
	if len(grid) < 2 {
		return []model.Order{}
	}

	headerIdx := findHeaderRow(grid)
	headers := make([]string, len(grid[headerIdx]))
	for i, cell := range grid[headerIdx] {
		headers[i] = strings.TrimSpace(cell)
	}

	orders := make([]model.Order, 0, len(grid)-headerIdx-1)
	for rowIdx := headerIdx + 1; rowIdx < len(grid); rowIdx++ {
		row := grid[rowIdx]
		if len(row) == 0 {
			continue
		}

		fields := bindRow(headers, row)
		booth := fields[colBooth]
		exhibitor := fields[colExhibitor]
		if booth == "" || exhibitor == "" {
			continue
		}

		date := fields[colDate]
		item := fields[colItem]
		orders = append(orders, model.Order{
			ID:            orderID(date, booth, rowIdx),
			BoothNumber:   booth,
			ExhibitorName: exhibitor,
			Item:          item,
			Description:   descriptionPrefix + item,
			Color:         fields[colColor],
			Quantity:      ParseQuantity(fields[colQuantity]),
			Status:        model.MapStatus(fields[colStatus]),
			OrderDate:     date,
			Comments:      fields[colComments],
			Section:       fields[colSection],
			Type:          fields[colType],
			User:          fields[colUser],
			Hour:          fields[colHour],
			DataSource:    DataSourceSheet,
		})
	}

	return orders
}

var maxQuantity = decimal.NewFromInt(math.MaxInt)

func findHeaderRow(grid [][]string) int {
	for i, row := range grid {
		for _, cell := range row {
			if strings.Contains(cell, headerMarker) {
				return i
			}
		}
	}
	return 0
}

// bindRow maps header names to trimmed cell values by position. Cells past
// the last header are dropped; a repeated header keeps its last column.
func bindRow(headers, row []string) map[string]string {
	fields := make(map[string]string, len(headers))
	for i, value := range row {
		if i >= len(headers) {
			break
		}
		fields[headers[i]] = strings.TrimSpace(value)
	}
	return fields
}

func orderID(date, booth string, rowIdx int) string {
	return fmt.Sprintf("ORD-%s-%s-%d", strings.ReplaceAll(date, "/", "-"), booth, rowIdx)
}

// ParseQuantity reads the value as a decimal and truncates it, so "2.0"
// gives 2. Empty or unparsable values give 1; negatives clamp to 0 and
// values beyond the int range clamp to math.MaxInt.
func ParseQuantity(raw string) int {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return defaultQuantity
	}
	if d.IsNegative() {
		return 0
	}
	if d.GreaterThanOrEqual(maxQuantity) {
		return math.MaxInt
	}
	return int(d.IntPart())
}
