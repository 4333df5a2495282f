package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oletk/sales-insights-etl/config"
	"github.com/oletk/sales-insights-etl/extract"
	"github.com/oletk/sales-insights-etl/load"
	"github.com/oletk/sales-insights-etl/report"
	"github.com/oletk/sales-insights-etl/transform"
)

type Pipeline struct {
	DuckDB    *load.DuckDB
	Directory *extract.DirectoryClient
	Weather   *extract.WeatherClient
	Logger    *slog.Logger
	Config    *config.Config
	sqlDir    string
}

// NewPipeline wires up the full pipeline: store, directory client and weather
// client. The weather client requires OPENWEATHER_API_KEY to be set.
func NewPipeline(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	p, err := NewReportPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}

	weatherClient, err := extract.NewWeatherClient(cfg, logger)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("error creating weather client: %w", err)
	}

	p.Directory = extract.NewDirectoryClient(cfg, logger)
	p.Weather = weatherClient

	return p, nil
}

// NewReportPipeline wires up only the store. It is enough to re-render the
// report charts from an existing database, without any remote calls.
func NewReportPipeline(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	db, err := load.NewDuckDB(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating DB database: %w", err)
	}

	// Determine SQL directory based on working directory
	sqlDir := "sql"
	if _, err := os.Stat(sqlDir); os.IsNotExist(err) {
		// If sql/ doesn't exist in current directory, try parent
		sqlDir = filepath.Join("..", "sql")
		if _, err := os.Stat(sqlDir); os.IsNotExist(err) {
			db.Close()
			return nil, fmt.Errorf("cannot find SQL directory in either current or parent directory")
		}
	}

	return &Pipeline{
		DuckDB: db,
		Logger: logger,
		Config: cfg,
		sqlDir: sqlDir,
	}, nil
}

func (p *Pipeline) Close() {
	p.DuckDB.Close()
}

// Run executes the five stages in order: schema init, sales load, customer
// fetch, weather enrichment, report generation.
func (p *Pipeline) Run() error {
	if err := p.InitSchema(); err != nil {
		return fmt.Errorf("error initializing schema: %w", err)
	}

	if _, err := p.LoadSales(p.Config.Sales.CSVPath); err != nil {
		return fmt.Errorf("error loading sales data: %w", err)
	}

	customers, err := p.FetchCustomers()
	if err != nil {
		return fmt.Errorf("error fetching customers: %w", err)
	}

	orders, err := p.EnrichWeather(customers)
	if err != nil {
		return fmt.Errorf("error enriching orders with weather: %w", err)
	}

	if err := p.GenerateReports(orders); err != nil {
		return fmt.Errorf("error generating reports: %w", err)
	}

	return nil
}

// InitSchema drops and recreates the orders, customers and weather_data
// tables. Safe to run against a store that already contains them.
func (p *Pipeline) InitSchema() error {
	if err := p.DuckDB.RunQueryFile(p.getSQLPath("init__schema.sql")); err != nil {
		return err
	}

	p.Logger.Info("Sales database created, with tables: orders, customers, weather_data")
	return nil
}

// LoadSales reads the sales CSV, drops orders with inconsistent customer
// attribution and appends the survivors to the orders table. Returns the
// number of dropped rows.
func (p *Pipeline) LoadSales(csvPath string) (int, error) {
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		return 0, fmt.Errorf("error reading sales CSV %s: %w", csvPath, err)
	}

	cleaned, dropped, err := transform.CleanSales(raw)
	if err != nil {
		return 0, fmt.Errorf("error cleaning sales data: %w", err)
	}

	if dropped > 0 {
		p.Logger.Warn(fmt.Sprintf("Dropped %d sales rows with inconsistent customer attribution", dropped))
	}

	if err := p.DuckDB.LoadCSV(cleaned, "orders"); err != nil {
		return dropped, fmt.Errorf("error loading sales data into DB: %w", err)
	}

	p.Logger.Info("Sales data written to db", "dropped_rows", dropped)
	return dropped, nil
}

// FetchCustomers fetches the customer directory and appends it to the
// customers table. Any fetch failure aborts the run: the weather enrichment
// and the reporting joins cannot proceed without customer records.
func (p *Pipeline) FetchCustomers() ([]extract.Customer, error) {
	customers, err := p.Directory.FetchCustomers()
	if err != nil {
		return nil, err
	}

	csv, err := transform.CustomersCSV(customers)
	if err != nil {
		return nil, fmt.Errorf("error encoding customers as CSV: %w", err)
	}

	if err := p.DuckDB.LoadCSV(csv, "customers"); err != nil {
		return nil, fmt.Errorf("error loading customers into DB: %w", err)
	}

	p.Logger.Info("Customer data written to db")
	return customers, nil
}

// EnrichWeather looks up the current weather once per distinct customer
// coordinate pair, persists the successful observations and returns the
// orders joined with customers and weather. A failed lookup degrades the
// affected customers (NULL weather) instead of aborting the run.
func (p *Pipeline) EnrichWeather(customers []extract.Customer) ([]report.EnrichedOrder, error) {
	type coordinate struct {
		lat, lng float64
	}

	seen := make(map[coordinate]bool)
	var observations []extract.WeatherObservation
	for _, customer := range customers {
		key := coordinate{customer.Lat, customer.Lng}
		if seen[key] {
			continue
		}
		seen[key] = true

		obs, err := p.Weather.CurrentConditions(customer.Lat, customer.Lng)
		if err != nil {
			p.Logger.Warn(fmt.Sprintf("Weather lookup failed for customer %d: %v", customer.ID, err))
			continue
		}
		observations = append(observations, obs)
	}

	if len(observations) > 0 {
		csv, err := transform.WeatherCSV(observations)
		if err != nil {
			return nil, fmt.Errorf("error encoding weather observations as CSV: %w", err)
		}
		if err := p.DuckDB.LoadCSV(csv, "weather_data"); err != nil {
			return nil, fmt.Errorf("error loading weather data into DB: %w", err)
		}
		p.Logger.Info("Weather data written to db", "observations", len(observations))
	} else {
		p.Logger.Warn("No weather observations collected; all orders will have empty weather")
	}

	return p.EnrichedOrders()
}

// EnrichedOrders runs the broadcast join of orders, customers and weather and
// scans the result into memory.
func (p *Pipeline) EnrichedOrders() ([]report.EnrichedOrder, error) {
	query, err := os.ReadFile(p.getSQLPath("query__enriched_orders.sql"))
	if err != nil {
		return nil, fmt.Errorf("error reading enriched orders query: %w", err)
	}

	rows, err := p.DuckDB.DB.QueryContext(context.Background(), string(query))
	if err != nil {
		return nil, fmt.Errorf("error querying enriched orders: %w", err)
	}
	defer rows.Close()

	var orders []report.EnrichedOrder
	for rows.Next() {
		var o report.EnrichedOrder
		if err := rows.Scan(
			&o.OrderID,
			&o.CustomerID,
			&o.ProductID,
			&o.Quantity,
			&o.Price,
			&o.YearMonth,
			&o.SalesAmount,
			&o.Name,
			&o.Username,
			&o.Email,
			&o.Lat,
			&o.Lng,
			&o.Weather,
			&o.Temperature,
		); err != nil {
			return nil, fmt.Errorf("error scanning enriched order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over enriched order rows: %w", err)
	}

	return orders, nil
}

// GenerateReports renders the five summary charts into the configured output
// directory.
func (p *Pipeline) GenerateReports(orders []report.EnrichedOrder) error {
	outputDir := p.Config.Report.OutputDir
	if err := report.EnsureOutputDir(outputDir); err != nil {
		return err
	}

	charts := []struct {
		name   string
		render func([]report.EnrichedOrder, string) error
	}{
		{"total sales per customer", report.TotalSalesChart},
		{"average quantity per product", report.AverageQuantityChart},
		{"top 10 selling products", report.TopSellingProductsChart},
		{"sales over months", report.MonthlySalesChart},
		{"sales over weather condition", report.WeatherSalesChart},
	}

	for _, chart := range charts {
		if err := chart.render(orders, outputDir); err != nil {
			return fmt.Errorf("error rendering %s chart: %w", chart.name, err)
		}
		p.Logger.Info(fmt.Sprintf("Completed %s analysis", chart.name))
	}

	return nil
}

func (p *Pipeline) getSQLPath(filename string) string {
	return filepath.Join(p.sqlDir, filename)
}
