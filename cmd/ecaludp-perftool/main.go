package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eclipse-ecal/ecaludp/internal/logging"
	"github.com/eclipse-ecal/ecaludp/internal/observability"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	mode := os.Args[1]

	flags := flag.NewFlagSet("ecaludp-perftool", flag.ExitOnError)
	configPath := flags.String("config", "", "path to a toml config file")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	logging.ConfigureRuntime()
	logger := logging.NewLogger("ecaludp-perftool")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	if cfg.MetricsAddr != "" {
		observability.RegisterMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	switch mode {
	case "send":
		err = runSender(cfg, logger)
	case "receive":
		err = runReceiver(cfg, logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("mode", mode).Msg("perftool failed")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: ecaludp-perftool <send|receive> [-config file.toml]")
}
