package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/ingest"
	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/internal/spatial"
)

func newCandidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Sample random candidate site points inside a bounding box",
		Long: `Draw candidate site points uniformly inside a longitude/latitude box.

Examples:
  sightings candidates --n 500 --bbox 121.03,14.49,121.10,14.56
  sightings candidates --n 500 --bbox 121.03,14.49,121.10,14.56 --fraction 0.2 --out -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("n")
			bbox, _ := cmd.Flags().GetString("bbox")
			fraction, _ := cmd.Flags().GetFloat64("fraction")
			out, _ := cmd.Flags().GetString("out")

			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Paths.Candidates
			}

			bounds, err := spatial.ParseBounds(bbox)
			if err != nil {
				return err
			}

			builder := service.NewSiteBuilder(logger)
			points, err := builder.RandomCandidates(cfg.Seed, bounds, n)
			if err != nil {
				return err
			}
			if fraction < 1 {
				if points, err = builder.Subsample(cfg.Seed, points, fraction); err != nil {
					return err
				}
			}

			w, err := createOutput(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := ingest.WriteCandidates(w, points); err != nil {
				return fmt.Errorf("failed to write candidates: %w", err)
			}

			logger.WithField("count", len(points)).Infof("wrote candidates to %s", out)
			return nil
		},
	}

	cmd.Flags().Int("n", 500, "Number of candidate points to draw")
	cmd.Flags().String("bbox", "", "Bounding box as minLon,minLat,maxLon,maxLat")
	cmd.Flags().Float64("fraction", 1, "Keep this random fraction of the drawn points")
	cmd.Flags().String("out", "", "Output CSV path, - for stdout (default paths.candidates)")
	cmd.MarkFlagRequired("bbox")

	return cmd
}
