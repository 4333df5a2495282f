package cmd

import (
	"fmt"

	"github.com/oletk/sales-insights-etl/pipeline"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs the full sales ETL and reporting pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeConfigAndLogger()
			if err != nil {
				return err
			}

			p, err := pipeline.NewPipeline(cfg, log)
			if err != nil {
				log.Error(fmt.Sprintf("Error creating pipeline: %v", err))
				return err
			}
			defer p.Close()

			if err := p.Run(); err != nil {
				log.Error(fmt.Sprintf("Error running pipeline: %v", err))
				return err
			}

			log.Info("Batch job completed without errors")
			return nil
		},
	}
}
