package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/database"
	"github.com/jengzang/telco-sightings-go/internal/export"
	"github.com/jengzang/telco-sightings-go/internal/models"
	"github.com/jengzang/telco-sightings-go/internal/repository"
	"github.com/jengzang/telco-sightings-go/internal/service"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Simulate subscriber trajectories over the configured site set",
		Long: `Run the full pipeline: read sites and subscribers, build the transition
graph, simulate every subscriber over the date range, store the dataset in
SQLite and write the record CSV. Kafka and InfluxDB exports run when enabled
in the config.

Examples:
  sightings generate --config sightings.yaml
  SIGHTINGS_SEED=7 sightings generate --no-db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			noDB, _ := cmd.Flags().GetBool("no-db")
			jsonOut, _ := cmd.Flags().GetBool("json")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var datasets *repository.DatasetRepository
			if !noDB {
				db, err := database.Open(database.Config{Path: cfg.Database.Path}, logger)
				if err != nil {
					return err
				}
				defer db.Close()
				datasets = repository.NewDatasetRepository(db)
			}

			svc := service.NewGenerationService(cfg, datasets, logger)
			in, err := svc.LoadInputs()
			if err != nil {
				return err
			}

			sinks, err := buildSinks(ctx, cfg, in.Sites, logger)
			if err != nil {
				return err
			}
			defer func() {
				for _, s := range sinks {
					if err := s.Close(); err != nil {
						logger.WithError(err).Warnf("failed to close %s sink", s.Name())
					}
				}
			}()

			result, err := svc.Generate(ctx, *in, sinks...)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"run":    result.Run,
					"travel": result.Travel,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d sightings of %d subscribers at %d sites over %d days\n",
				result.Run.ID, result.Run.Records, result.Run.Subscribers, result.Run.Sites, result.Run.NumDays)
			fmt.Fprintf(cmd.OutOrStdout(), "Daily travel: mean %.0f m, p50 %.0f m, p90 %.0f m\n",
				result.Travel.Mean, result.Travel.P50, result.Travel.P90)
			return nil
		},
	}

	cmd.Flags().Bool("no-db", false, "Skip SQLite persistence")

	return cmd
}

// buildSinks opens the exporters enabled in cfg
func buildSinks(ctx context.Context, cfg *config.Config, sites []models.Site, logger logrus.FieldLogger) ([]export.Sink, error) {
	var sinks []export.Sink
	if cfg.Paths.Output != "" {
		sinks = append(sinks, export.NewCSVSink(cfg.Paths.Output))
	}
	if cfg.Kafka.Enabled {
		pub, err := export.NewKafkaPublisher(cfg.Kafka, sites, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, pub)
	}
	if cfg.InfluxDB.Enabled {
		w, err := export.NewInfluxWriter(ctx, cfg.InfluxDB, sites, logger)
		if err != nil {
			for _, s := range sinks {
				s.Close()
			}
			return nil, err
		}
		sinks = append(sinks, w)
	}
	return sinks, nil
}
