package report

import (
	"database/sql"
	"sort"
	"strconv"
)

// EnrichedOrder is one order line item joined with its customer and that
// customer's current weather. It exists only in memory, as input to the
// report aggregations; it is never persisted as its own table.
type EnrichedOrder struct {
	OrderID     int
	CustomerID  int
	ProductID   int
	Quantity    int
	Price       float64
	YearMonth   string
	SalesAmount float64
	Name        string
	Username    string
	Email       string
	Lat         float64
	Lng         float64
	Weather     sql.NullString
	Temperature sql.NullFloat64
}

// Point is one labeled value in an aggregated report series.
type Point struct {
	Label string
	Value float64
}

// TotalSalesPerCustomer sums sales_amount per customer, labeled with the
// customer name, ordered by customer id.
func TotalSalesPerCustomer(orders []EnrichedOrder) []Point {
	totals := make(map[int]float64)
	names := make(map[int]string)
	for _, o := range orders {
		totals[o.CustomerID] += o.SalesAmount
		names[o.CustomerID] = o.Name
	}

	ids := sortedKeys(totals)
	points := make([]Point, 0, len(ids))
	for _, id := range ids {
		points = append(points, Point{Label: names[id], Value: totals[id]})
	}
	return points
}

// AverageQuantityPerProduct computes the mean order quantity per product,
// ordered by product id.
func AverageQuantityPerProduct(orders []EnrichedOrder) []Point {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, o := range orders {
		sums[o.ProductID] += float64(o.Quantity)
		counts[o.ProductID]++
	}

	ids := sortedKeys(sums)
	points := make([]Point, 0, len(ids))
	for _, id := range ids {
		points = append(points, Point{Label: strconv.Itoa(id), Value: sums[id] / float64(counts[id])})
	}
	return points
}

// TopSellingProducts sums quantity per product and returns the top `limit`
// products by total quantity, descending. Ties keep the order in which the
// products were first encountered.
func TopSellingProducts(orders []EnrichedOrder, limit int) []Point {
	totals := make(map[int]float64)
	var encounterOrder []int
	for _, o := range orders {
		if _, seen := totals[o.ProductID]; !seen {
			encounterOrder = append(encounterOrder, o.ProductID)
		}
		totals[o.ProductID] += float64(o.Quantity)
	}

	points := make([]Point, 0, len(encounterOrder))
	for _, id := range encounterOrder {
		points = append(points, Point{Label: strconv.Itoa(id), Value: totals[id]})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value > points[j].Value
	})

	if len(points) > limit {
		points = points[:limit]
	}
	return points
}

// SalesPerMonth sums sales_amount per calendar year-month, in chronological
// (lexicographic "YYYY-MM") order.
func SalesPerMonth(orders []EnrichedOrder) []Point {
	totals := make(map[string]float64)
	for _, o := range orders {
		totals[o.YearMonth] += o.SalesAmount
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	points := make([]Point, 0, len(months))
	for _, month := range months {
		points = append(points, Point{Label: month, Value: totals[month]})
	}
	return points
}

// SalesPerWeatherCondition sums sales_amount per weather condition, in the
// order the conditions are first encountered. Rows without a weather value
// (failed lookups) are excluded.
func SalesPerWeatherCondition(orders []EnrichedOrder) []Point {
	totals := make(map[string]float64)
	var encounterOrder []string
	for _, o := range orders {
		if !o.Weather.Valid {
			continue
		}
		condition := o.Weather.String
		if _, seen := totals[condition]; !seen {
			encounterOrder = append(encounterOrder, condition)
		}
		totals[condition] += o.SalesAmount
	}

	points := make([]Point, 0, len(encounterOrder))
	for _, condition := range encounterOrder {
		points = append(points, Point{Label: condition, Value: totals[condition]})
	}
	return points
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
