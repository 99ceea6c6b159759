package order

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Order ID", "Date", "Customer", "Phone", "Location", "Items", "Total", "Status"}

const exportSheet = "Orders"

func exportRecord(o Order) []string {
	return []string{
		o.ID,
		o.CreatedAt.Format(time.RFC3339),
		o.CustomerName,
		o.CustomerPhone,
		string(o.Location),
		ItemsSummary(o.Items),
		strconv.FormatFloat(o.TotalPrice, 'f', 2, 64),
		string(o.Status),
	}
}

// ItemsSummary renders items as "name x qty; ...".
func ItemsSummary(items []CartItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x %d", item.Name, item.Quantity))
	}
	return strings.Join(parts, "; ")
}

// WriteCSV writes orders as CSV with a header row.
func WriteCSV(w io.Writer, orders []Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		if err := cw.Write(exportRecord(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes orders as a single-sheet workbook.
func WriteXLSX(w io.Writer, orders []Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	for i, o := range orders {
		rec := exportRecord(o)
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		// numeric total so spreadsheets can sum it
		row[6] = o.TotalPrice
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
