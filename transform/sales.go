package transform

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// orderColumns is the canonical column order of the orders table. The input
// file may carry the columns in any order (and extra columns); the cleaned
// output is always projected into this order so COPY loads line up.
var orderColumns = []string{"order_id", "customer_id", "product_id", "quantity", "price", "order_date"}

// CleanSales validates the raw sales CSV and removes every order whose line
// items disagree on the owning customer. An order cannot belong to two
// customers, so the whole group is dropped rather than salvaged partially.
// Returns the cleaned CSV (canonical column order, original row order) and
// the number of dropped rows. Missing columns or unparseable rows are errors.
func CleanSales(csvData []byte) ([]byte, int, error) {
	reader := csv.NewReader(bytes.NewReader(csvData))

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sales CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("sales CSV is empty")
	}

	colIndex := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		colIndex[name] = i
	}
	for _, name := range orderColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, 0, fmt.Errorf("sales CSV is missing required column %q", name)
		}
	}

	rows := records[1:]
	for i, record := range rows {
		if err := validateRow(record, colIndex); err != nil {
			return nil, 0, fmt.Errorf("invalid sales row on line %d: %w", i+2, err)
		}
	}

	// First pass: find orders whose customer_id is not uniform.
	ownerOf := make(map[string]string)
	inconsistent := make(map[string]bool)
	for _, record := range rows {
		orderID := record[colIndex["order_id"]]
		customerID := record[colIndex["customer_id"]]
		if owner, seen := ownerOf[orderID]; seen {
			if owner != customerID {
				inconsistent[orderID] = true
			}
		} else {
			ownerOf[orderID] = customerID
		}
	}

	// Second pass: write the surviving rows in their original order.
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write(orderColumns); err != nil {
		return nil, 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	dropped := 0
	for _, record := range rows {
		if inconsistent[record[colIndex["order_id"]]] {
			dropped++
			continue
		}
		projected := make([]string, len(orderColumns))
		for i, name := range orderColumns {
			projected[i] = record[colIndex[name]]
		}
		if err := writer.Write(projected); err != nil {
			return nil, 0, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buffer.Bytes(), dropped, nil
}

func validateRow(record []string, colIndex map[string]int) error {
	for _, name := range []string{"order_id", "customer_id", "product_id"} {
		if _, err := strconv.Atoi(record[colIndex[name]]); err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
	}

	quantity, err := strconv.Atoi(record[colIndex["quantity"]])
	if err != nil {
		return fmt.Errorf("column quantity: %w", err)
	}
	if quantity < 0 {
		return fmt.Errorf("column quantity: negative value %d", quantity)
	}

	if _, err := strconv.ParseFloat(record[colIndex["price"]], 64); err != nil {
		return fmt.Errorf("column price: %w", err)
	}

	if _, err := time.Parse("2006-01-02", record[colIndex["order_date"]]); err != nil {
		return fmt.Errorf("column order_date: %w", err)
	}

	return nil
}
