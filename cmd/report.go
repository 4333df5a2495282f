package cmd

import (
	"fmt"

	"github.com/oletk/sales-insights-etl/pipeline"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Re-renders the summary charts from an existing store, without fetching anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeConfigAndLogger()
			if err != nil {
				return err
			}

			p, err := pipeline.NewReportPipeline(cfg, log)
			if err != nil {
				log.Error(fmt.Sprintf("Error creating pipeline: %v", err))
				return err
			}
			defer p.Close()

			orders, err := p.EnrichedOrders()
			if err != nil {
				log.Error(fmt.Sprintf("Error querying enriched orders: %v", err))
				return err
			}

			if err := p.GenerateReports(orders); err != nil {
				log.Error(fmt.Sprintf("Error generating reports: %v", err))
				return err
			}

			log.Info(fmt.Sprintf("Re-rendered reports from %d enriched order rows", len(orders)))
			return nil
		},
	}
}
