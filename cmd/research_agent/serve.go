package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-research/internal/config"
	"github.com/jonathan/candidate-research/internal/logger"
	"github.com/jonathan/candidate-research/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running candidate research and browsing past runs.`,
	RunE:  runServe,
}

var (
	serveConfigPath string
	serveAddr       string
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8080)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose/debug output")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}
	if serveVerbose {
		cfg.Verbose = true
	}

	log, err := logger.New(true, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	p, err := buildPipeline(ctx, cfg, database, log)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return err
	}

	serverCfg := server.Config{Addr: cfg.ListenAddr, Database: database}

	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("failed to create JWT config: %w", err)
		}
		serverCfg.JWTConfig = jwtConfig
	}

	return server.New(p, serverCfg, log).Start()
}
