package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/placeqa/internal/domain"
	"github.com/kailas-cloud/placeqa/internal/transport/google"
	assessmentuc "github.com/kailas-cloud/placeqa/internal/usecase/assessment"
)

func newAssessCommand(opts *options) *cobra.Command {
	var (
		radius     int
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "assess <location>",
		Short: "Search businesses around a location and score them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel, err := opts.commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			provider := google.NewClient(&google.Config{
				APIKey:     cfg.Places.APIKey,
				GeocodeURL: cfg.Places.GeocodeURL,
				NearbyURL:  cfg.Places.NearbyURL,
				Region:     cfg.Places.Region,
				Timeout:    time.Duration(cfg.Places.TimeoutSec) * time.Second,
			})
			svc := assessmentuc.New(provider, assessmentuc.Options{
				RadiusMeters:  cfg.Places.RadiusMeters,
				Categories:    cfg.Places.Categories,
				Stagger:       time.Duration(cfg.Places.StaggerMs) * time.Millisecond,
				MaxWorkingSet: cfg.Analysis.MaxWorkingSet,
				IssuePreview:  previewLimit(opts.preview),
			})

			ctx, _ = domain.NewContextWithProviderUsage(ctx)
			res, err := svc.Assess(ctx, assessmentuc.Query{
				Location:     strings.Join(args, " "),
				RadiusMeters: radius,
				Categories:   categories,
			})
			if err != nil {
				return fmt.Errorf("assess: %w", err)
			}

			if opts.jsonOut {
				return writeJSON(cmd, res)
			}
			printResult(cmd.OutOrStdout(), &res)
			return nil
		},
	}

	cmd.Flags().IntVarP(&radius, "radius", "r", 0, "Search radius in meters (default from config)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Place category to search; repeatable (default from config)")

	return cmd
}
