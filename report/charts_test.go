package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChartsWritePNGFiles(t *testing.T) {
	orders := []EnrichedOrder{
		order(1, 1, 101, 2, 19.98, "2023-01", "Leanne Graham", "clear sky"),
		order(2, 2, 102, 1, 5.50, "2023-01", "Ervin Howell", "light rain"),
		order(3, 1, 103, 4, 10.00, "2023-02", "Leanne Graham", "clear sky"),
	}

	outputDir := t.TempDir()
	assert.NoError(t, EnsureOutputDir(outputDir))

	charts := []struct {
		render func([]EnrichedOrder, string) error
		file   string
	}{
		{TotalSalesChart, TotalSalesFile},
		{AverageQuantityChart, AverageQuantityFile},
		{TopSellingProductsChart, TopProductsFile},
		{MonthlySalesChart, MonthlySalesFile},
		{WeatherSalesChart, WeatherSalesFile},
	}

	for _, chart := range charts {
		t.Run(chart.file, func(t *testing.T) {
			assert.NoError(t, chart.render(orders, outputDir))

			info, err := os.Stat(filepath.Join(outputDir, chart.file))
			assert.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestEnsureOutputDirCreatesNestedDirs(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "results")
	assert.NoError(t, EnsureOutputDir(outputDir))

	info, err := os.Stat(outputDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
