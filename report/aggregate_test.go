package report

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func order(orderID, customerID, productID, quantity int, salesAmount float64, yearMonth, name, weather string) EnrichedOrder {
	o := EnrichedOrder{
		OrderID:     orderID,
		CustomerID:  customerID,
		ProductID:   productID,
		Quantity:    quantity,
		SalesAmount: salesAmount,
		YearMonth:   yearMonth,
		Name:        name,
	}
	if weather != "" {
		o.Weather = sql.NullString{String: weather, Valid: true}
	}
	return o
}

func TestTotalSalesPerCustomer(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 2, 101, 1, 20, "2023-01", "Ervin Howell", ""),
		order(2, 1, 101, 1, 10, "2023-01", "Leanne Graham", ""),
		order(3, 1, 102, 1, 5, "2023-01", "Leanne Graham", ""),
	}

	got := TotalSalesPerCustomer(orders)
	assert.Equal(t, []Point{
		{Label: "Leanne Graham", Value: 15},
		{Label: "Ervin Howell", Value: 20},
	}, got)
}

func TestAverageQuantityPerProduct(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 2, 0, "2023-01", "", ""),
		order(2, 1, 101, 4, 0, "2023-01", "", ""),
		order(3, 1, 102, 5, 0, "2023-01", "", ""),
	}

	got := AverageQuantityPerProduct(orders)
	assert.Equal(t, []Point{
		{Label: "101", Value: 3},
		{Label: "102", Value: 5},
	}, got)
}

func TestTopSellingProducts(t *testing.T) {
	// 12 distinct products; two tied at 50 must keep encounter order and the
	// output must truncate to exactly 10 rows.
	quantities := []int{50, 40, 50, 30, 25, 20, 15, 12, 10, 8, 6, 5}
	var orders []EnrichedOrder
	for i, q := range quantities {
		orders = append(orders, order(i+1, 1, 200+i, q, 0, "2023-01", "", ""))
	}

	got := TopSellingProducts(orders, 10)
	assert.Len(t, got, 10)

	// Descending by quantity.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Value, got[i].Value)
	}

	// Products 200 and 202 are tied at 50; 200 was encountered first.
	assert.Equal(t, Point{Label: "200", Value: 50}, got[0])
	assert.Equal(t, Point{Label: "202", Value: 50}, got[1])
	assert.Equal(t, Point{Label: "201", Value: 40}, got[2])

	// The two smallest products fall off the end.
	labels := make([]string, len(got))
	for i, p := range got {
		labels[i] = p.Label
	}
	assert.NotContains(t, labels, "210")
	assert.NotContains(t, labels, "211")
}

func TestTopSellingProducts_AccumulatesLineItems(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 2, 0, "2023-01", "", ""),
		order(2, 1, 102, 10, 0, "2023-01", "", ""),
		order(3, 1, 101, 9, 0, "2023-01", "", ""),
	}

	got := TopSellingProducts(orders, 10)
	assert.Equal(t, []Point{
		{Label: "101", Value: 11},
		{Label: "102", Value: 10},
	}, got)
}

func TestSalesPerMonth(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 1, 10, "2023-01", "", ""),
		order(2, 1, 101, 1, 20, "2023-01", "", ""),
		order(3, 1, 101, 1, 30, "2023-02", "", ""),
	}

	got := SalesPerMonth(orders)
	assert.Equal(t, []Point{
		{Label: "2023-01", Value: 30},
		{Label: "2023-02", Value: 30},
	}, got)
}

func TestSalesPerMonth_ChronologicalOrder(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 1, 5, "2023-11", "", ""),
		order(2, 1, 101, 1, 10, "2023-02", "", ""),
		order(3, 1, 101, 1, 15, "2024-01", "", ""),
	}

	got := SalesPerMonth(orders)
	assert.Equal(t, []Point{
		{Label: "2023-02", Value: 10},
		{Label: "2023-11", Value: 5},
		{Label: "2024-01", Value: 15},
	}, got)
}

func TestSalesPerWeatherCondition(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 1, 10, "2023-01", "", "light rain"),
		order(2, 2, 101, 1, 20, "2023-01", "", "clear sky"),
		order(3, 1, 102, 1, 5, "2023-01", "", "light rain"),
		order(4, 3, 101, 1, 40, "2023-01", "", ""), // failed lookup, excluded
	}

	got := SalesPerWeatherCondition(orders)
	assert.Equal(t, []Point{
		{Label: "light rain", Value: 15},
		{Label: "clear sky", Value: 20},
	}, got)
}

func TestAggregationsOnEmptyInput(t *testing.T) {
	assert.Empty(t, TotalSalesPerCustomer(nil))
	assert.Empty(t, AverageQuantityPerProduct(nil))
	assert.Empty(t, TopSellingProducts(nil, 10))
	assert.Empty(t, SalesPerMonth(nil))
	assert.Empty(t, SalesPerWeatherCondition(nil))
}
