package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"Couple-App/internal/app"
	"Couple-App/internal/config"
	"Couple-App/internal/domain/helper"
)

var (
	coupleID  string
	asGeoJSON bool
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "couplectl",
	Short: "Couple-App operations tool",
	Long:  `Schema bootstrap and ad-hoc queries against the co-location ledger, using the same environment as the server.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and indexes if they do not exist",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var clusterDayCmd = &cobra.Command{
	Use:   "cluster-day YYYY-MM-DD",
	Short: "Cluster one day of co-location checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runClusterDay,
}

var datesCmd = &cobra.Command{
	Use:   "dates YYYY-MM",
	Short: "List days of the month with co-location checkpoints",
	Args:  cobra.ExactArgs(1),
	RunE:  runDates,
}

var nearbyCmd = &cobra.Command{
	Use:   "check-nearby",
	Short: "Run a proximity check for a couple",
	Args:  cobra.NoArgs,
	RunE:  runNearby,
}

func init() {
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Overall command timeout")

	for _, cmd := range []*cobra.Command{clusterDayCmd, datesCmd, nearbyCmd} {
		cmd.Flags().StringVarP(&coupleID, "couple", "c", "", "Couple ID")
		_ = cmd.MarkFlagRequired("couple")
	}
	clusterDayCmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "Print clusters as a GeoJSON FeatureCollection")

	rootCmd.AddCommand(migrateCmd, clusterDayCmd, datesCmd, nearbyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	c, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
		if c.Postgres == nil {
			return fmt.Errorf("PostgreSQLを使うバックエンドが設定されていません")
		}
		// EnsureSchema は冪等
		if err := c.Postgres.EnsureSchema(ctx); err != nil {
			return err
		}
		fmt.Println("✅ schema is up to date")
		return nil
	})
}

func runClusterDay(cmd *cobra.Command, args []string) error {
	return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
		res, err := c.UseCase.ClusterDay(ctx, coupleID, args[0])
		if err != nil {
			return err
		}
		if asGeoJSON {
			return printJSON(helper.ClustersToFeatureCollection(res.Clusters))
		}
		return printJSON(res)
	})
}

func runDates(cmd *cobra.Command, args []string) error {
	return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
		days, err := c.UseCase.DatesWithCheckpoints(ctx, coupleID, args[0])
		if err != nil {
			return err
		}
		return printJSON(days)
	})
}

func runNearby(cmd *cobra.Command, args []string) error {
	return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
		res, err := c.UseCase.CheckNearby(ctx, coupleID)
		if err != nil {
			return err
		}
		return printJSON(res)
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
