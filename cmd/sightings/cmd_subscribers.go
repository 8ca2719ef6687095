package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/ingest"
	"github.com/jengzang/telco-sightings-go/internal/service"
)

func newSubscribersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Write a roster of sequential subscriber ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			n, _ := cmd.Flags().GetInt("n")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.Paths.Subscribers
			}

			ids, err := service.NewSiteBuilder(logger).SubscriberRoster(cfg.IDs.SubscriberPrefix, n)
			if err != nil {
				return err
			}

			w, err := createOutput(cmd, out)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := ingest.WriteSubscribers(w, ids); err != nil {
				return fmt.Errorf("failed to write subscribers: %w", err)
			}

			logger.WithField("count", len(ids)).Infof("wrote subscribers to %s", out)
			return nil
		},
	}

	cmd.Flags().Int("n", 100, "Number of subscribers")
	cmd.Flags().String("out", "", "Output CSV path, - for stdout (default paths.subscribers)")

	return cmd
}
