package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/hazard-risk-service/internal/adapter/nasa"
	"github.com/couchcryptid/hazard-risk-service/internal/app"
	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/spf13/cobra"
)

type builder func() (*app.App, error)

func newRootCmd(build builder) *cobra.Command {
	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Hazard risk analysis from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(analyzeCmd(build), villagesCmd(build), tileCmd(build))
	return root
}

func analyzeCmd(build builder) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Rate wildfire, heatwave, flood and landslide risk at a location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			// The publisher must run so the report is flushed before Close.
			stop := runInBackground(cmd.Context(), a)
			report, err := a.Analyzer.Analyze(cmd.Context(), domain.GeoPoint{Lat: lat, Lon: lon})
			if stopErr := stop(); stopErr != nil && err == nil {
				err = stopErr
			}
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

// runInBackground starts a's background work. The returned func cancels it
// and waits until buffered reports have been flushed.
func runInBackground(ctx context.Context, a *app.App) func() error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	return func() error {
		cancel()
		return <-done
	}
}

func villagesCmd(build builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "villages",
		Short: "Query monitored villages",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List villages with a risk summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"villages": a.Villages.List(),
				"summary":  a.Villages.Summary(),
			})
		},
	}

	var (
		lat, lon, radius float64
		limit            int
	)
	near := &cobra.Command{
		Use:   "near",
		Short: "List villages within a radius, nearest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			found, err := a.Villages.Near(domain.GeoPoint{Lat: lat, Lon: lon}, radius, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}
	near.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	near.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	near.Flags().Float64VarP(&radius, "radius", "r", 100, "search radius in km")
	near.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of villages")
	_ = near.MarkFlagRequired("lat")
	_ = near.MarkFlagRequired("lon")

	cmd.AddCommand(list, near)
	return cmd
}

func tileCmd(build builder) *cobra.Command {
	var (
		req    nasa.TileRequest
		output string
	)
	cmd := &cobra.Command{
		Use:   "tile",
		Short: "Download a GIBS map tile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return errors.New("--output is required")
			}
			a, err := build()
			if err != nil {
				return err
			}
			defer a.Close()

			tile, err := a.Tiles.FetchTile(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("fetch tile: %w", err)
			}
			if err := os.WriteFile(output, tile.Data, 0o644); err != nil {
				return fmt.Errorf("write tile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes (%s) to %s\n", len(tile.Data), tile.ContentType, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Layer, "layer", "MODIS_Terra_CorrectedReflectance_TrueColor", "GIBS layer identifier")
	cmd.Flags().StringVar(&req.Date, "date", "", "imagery date, YYYY-MM-DD")
	cmd.Flags().IntVar(&req.Zoom, "z", 1, "zoom level")
	cmd.Flags().IntVar(&req.Y, "y", 0, "tile row")
	cmd.Flags().IntVar(&req.X, "x", 0, "tile column")
	cmd.Flags().StringVar(&req.Format, "format", "jpg", "tile image format")
	cmd.Flags().StringVar(&req.Resolution, "resolution", "500m", "tile matrix set resolution")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
