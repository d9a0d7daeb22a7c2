package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/energeticlee/heist-clone/config"
	appwire "github.com/energeticlee/heist-clone/wire"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "heistd",
	Short: "NFT staking reward service",
	Long: `heistd runs the time-bounded NFT-staking reward program: an operator
funds a reward pool tied to a collection, players stake NFTs into one of
three risk banks, and each close resolves a payout through the bank's
weighted outcome table.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the staking service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger := appwire.ProvideLogger(cfg)

		redisClient, err := appwire.ProvideRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		st := appwire.ProvideStore(redisClient)

		recorder, err := appwire.ProvideRecorder(cfg)
		if err != nil {
			return fmt.Errorf("open episode database: %w", err)
		}

		producer, err := appwire.ProvideProducer(cfg, logger)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}

		hub := appwire.ProvideHub()
		svc := appwire.ProvideStakeService(cfg, logger, st, recorder, producer, hub)
		app := appwire.ProvideApp(cfg, logger, svc, hub)

		app.OnShutdown(func() {
			_ = recorder.Close()
			if producer != nil {
				_ = producer.Close()
			}
			_ = redisClient.Close()
		})

		return app.Run()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
