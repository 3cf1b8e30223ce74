package usecase

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"SaleCast/internal/domain/models"
	"SaleCast/pkg/util"
)

// ParseSalesCSV reads a raw sales table. The header must contain "date" and
// "sales" columns ("product_id" is optional); anything else is a SchemaError.
// Duplicate dates are summed and the result is sorted ascending, so the
// output satisfies the engine's input invariants.
func ParseSalesCSV(r io.Reader) ([]models.Sale, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	dateCol, salesCol, productCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "sales":
			salesCol = i
		case "product_id":
			productCol = i
		}
	}
	var missing []string
	if dateCol < 0 {
		missing = append(missing, "date")
	}
	if salesCol < 0 {
		missing = append(missing, "sales")
	}
	if len(missing) > 0 {
		return nil, &models.SchemaError{Missing: missing}
	}

	totals := make(map[time.Time]float64)
	products := make(map[time.Time]string)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		date, ok := util.ParseDate(record[dateCol])
		if !ok {
			return nil, fmt.Errorf("line %d: invalid date %q", line, record[dateCol])
		}
		units, err := strconv.ParseFloat(strings.TrimSpace(record[salesCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid sales value %q", line, record[salesCol])
		}

		totals[date] += units
		if productCol >= 0 {
			products[date] = strings.TrimSpace(record[productCol])
		}
	}

	sales := make([]models.Sale, 0, len(totals))
	for date, units := range totals {
		sales = append(sales, models.Sale{ProductID: products[date], Date: date, Units: units})
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.Before(sales[j].Date) })
	return sales, nil
}

// SalesFromPayload converts an inline JSON series to engine input, applying
// the same duplicate-date summation and ascending sort as the CSV path.
func SalesFromPayload(points []models.SeriesPointPayload) ([]models.Sale, error) {
	totals := make(map[time.Time]float64, len(points))
	for i, p := range points {
		date, ok := util.ParseDate(p.Date)
		if !ok {
			return nil, fmt.Errorf("series point %d: invalid date %q", i, p.Date)
		}
		totals[date] += p.Sales
	}

	sales := make([]models.Sale, 0, len(totals))
	for date, units := range totals {
		sales = append(sales, models.Sale{Date: date, Units: units})
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.Before(sales[j].Date) })
	return sales, nil
}
