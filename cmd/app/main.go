package main

import (
	"fmt"
	"log"
	"os"

	"ForecastGate/internal/di"
	"ForecastGate/internal/domain/models"
	"ForecastGate/pkg/config"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "forecastgate",
	Short: "HTTP gateway in front of the sumtyme EIP forecasting API",
	Long: `ForecastGate validates OHLC and univariate time series, trims them to the
window the EIP API expects and returns its causal chain forecasts.

Running without a subcommand is the same as "forecastgate serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the API version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), models.APIVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	log.Printf("env=%s events=%s eip_available=%t", cfg.Environment, cfg.Events.Backend, cfg.EIPAvailable())

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	return app.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
