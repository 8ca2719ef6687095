package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/ingest"
	"github.com/jengzang/telco-sightings-go/internal/service"
	"github.com/jengzang/telco-sightings-go/internal/stats"
)

func newDedupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Turn candidate points into a minimum-separation site set",
		Long: `Drop every candidate whose nearest other candidate is closer than the
minimum separation and name the remaining points as sites.

A candidate is judged only by its own nearest neighbour, so both points of a
close pair are dropped.

Examples:
  sightings dedup                                   # paths from config
  sightings dedup --candidates c.csv --out sites.csv --min-separation 300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, _ := cmd.Flags().GetString("candidates")
			out, _ := cmd.Flags().GetString("out")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if in == "" {
				in = cfg.Paths.Candidates
			}
			if out == "" {
				out = cfg.Paths.Sites
			}
			minSeparation := cfg.MinSiteSeparationMeters
			if cmd.Flags().Changed("min-separation") {
				minSeparation, _ = cmd.Flags().GetFloat64("min-separation")
			}

			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("failed to open candidates: %w", err)
			}
			points, warnings, err := ingest.ReadCandidates(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", in, err)
			}
			for _, w := range warnings {
				logger.WithField("file", in).Warn(w.String())
			}

			sites, result, err := service.NewSiteBuilder(logger).BuildSites(points, minSeparation, cfg.IDs.SitePrefix)
			if err != nil {
				return err
			}

			w, err := createOutput(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := ingest.WriteSites(w, sites); err != nil {
				return fmt.Errorf("failed to write sites: %w", err)
			}

			report := map[string]interface{}{
				"candidates": len(points),
				"sites":      len(sites),
				"excluded":   len(result.Excluded),
				"nearest":    stats.Summarize(finite(result.Nearest)),
			}
			if jsonOut {
				return json.NewEncoder(cmd.ErrOrStderr()).Encode(report)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Kept %d of %d candidates (%d excluded), wrote %s\n",
				len(sites), len(points), len(result.Excluded), out)
			return nil
		},
	}

	cmd.Flags().String("candidates", "", "Candidate CSV (default paths.candidates)")
	cmd.Flags().String("out", "", "Site CSV to write, - for stdout (default paths.sites)")
	cmd.Flags().Float64("min-separation", 0, "Minimum nearest-neighbour distance in meters (default min_site_separation_meters)")

	return cmd
}

// finite drops the +Inf nearest distance of a lone point
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
