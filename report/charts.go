package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart output filenames, one per report.
const (
	TotalSalesFile      = "Total_sales.png"
	AverageQuantityFile = "Average_quantity_per_product.png"
	TopProductsFile     = "top_10_selling_products.png"
	MonthlySalesFile    = "Sales_over_months.png"
	WeatherSalesFile    = "Sales_over_weather_cond.png"

	topSellingLimit = 10
)

// TotalSalesChart renders total sales per customer as a bar chart.
func TotalSalesChart(orders []EnrichedOrder, outputDir string) error {
	points := TotalSalesPerCustomer(orders)
	return barChart(points, "Total Sales Amount Per Customer", "Customer", "Total Sales Amount", filepath.Join(outputDir, TotalSalesFile))
}

// AverageQuantityChart renders the average order quantity per product as a bar chart.
func AverageQuantityChart(orders []EnrichedOrder, outputDir string) error {
	points := AverageQuantityPerProduct(orders)
	return barChart(points, "Average order quantity per product", "Product ID", "Average Quantity", filepath.Join(outputDir, AverageQuantityFile))
}

// TopSellingProductsChart renders the ten best-selling products by total quantity as a bar chart.
func TopSellingProductsChart(orders []EnrichedOrder, outputDir string) error {
	points := TopSellingProducts(orders, topSellingLimit)
	return barChart(points, "Top 10 Most Selling Products", "Product ID", "Total Quantity Sold", filepath.Join(outputDir, TopProductsFile))
}

// MonthlySalesChart renders total sales per calendar month as a line chart.
func MonthlySalesChart(orders []EnrichedOrder, outputDir string) error {
	points := SalesPerMonth(orders)
	return lineChart(points, "Total Sales Over Months", "Year-Month", "Total Sales", filepath.Join(outputDir, MonthlySalesFile))
}

// WeatherSalesChart renders total sales per weather condition as a line chart.
func WeatherSalesChart(orders []EnrichedOrder, outputDir string) error {
	points := SalesPerWeatherCondition(orders)
	return lineChart(points, "Total Sales Over weather condition", "Weather Condition", "Total Sales", filepath.Join(outputDir, WeatherSalesFile))
}

// EnsureOutputDir creates the results directory if it does not exist yet.
func EnsureOutputDir(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func barChart(points []Point, title, xLabel, yLabel, path string) error {
	p := newPlot(title, xLabel, yLabel)

	values := make(plotter.Values, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		values[i] = pt.Value
		labels[i] = pt.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("failed to build bar chart %s: %w", path, err)
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}

func lineChart(points []Point, title, xLabel, yLabel, path string) error {
	p := newPlot(title, xLabel, yLabel)

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		xys[i].X = float64(i)
		xys[i].Y = pt.Value
		labels[i] = pt.Label
	}

	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return fmt.Errorf("failed to build line chart %s: %w", path, err)
	}
	p.Add(line, markers)
	p.NominalX(labels...)

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}
