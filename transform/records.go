package transform

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/oletk/sales-insights-etl/extract"
)

// CustomersCSV encodes fetched customer records as CSV in the column order of
// the customers table.
func CustomersCSV(customers []extract.Customer) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write([]string{"id", "name", "username", "email", "lat", "lng"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, c := range customers {
		record := []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Username,
			c.Email,
			formatFloat(c.Lat),
			formatFloat(c.Lng),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buffer.Bytes(), nil
}

// WeatherCSV encodes weather observations as CSV in the column order of the
// weather_data table.
func WeatherCSV(observations []extract.WeatherObservation) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write([]string{"lat", "lng", "temperature", "weather"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, obs := range observations {
		record := []string{
			formatFloat(obs.Lat),
			formatFloat(obs.Lng),
			formatFloat(obs.Temperature),
			obs.Condition,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buffer.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
