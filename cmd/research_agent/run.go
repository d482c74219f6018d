package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-research/internal/logger"
	"github.com/jonathan/candidate-research/internal/observability"
	"github.com/jonathan/candidate-research/internal/pipeline"
	"github.com/jonathan/candidate-research/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full research pipeline for one candidate",
	Long: `Plans search queries for the candidate, executes them, validates and
distills the discovered sources, and writes the compiled evidence bundle as
JSON.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runResearchCmd,
}

var (
	runConfigPath   string
	runProfilePath  string
	runJobPath      string
	runQueries      int
	runThreshold    float64
	runInstructions string
	runOutputPath   string
	runVerbose      bool
	runJSONLog      bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVarP(&runProfilePath, "profile", "p", "", "Path to candidate profile JSON file (required)")
	runCommand.Flags().StringVarP(&runJobPath, "job", "j", "", "Path to job description text file")
	runCommand.Flags().IntVarP(&runQueries, "queries", "n", 0, "Number of general search queries to generate")
	runCommand.Flags().Float64Var(&runThreshold, "threshold", 0, "Minimum judge confidence for keeping a source (0-1)")
	runCommand.Flags().StringVar(&runInstructions, "instructions", "", "Custom instructions passed to the evaluator")
	runCommand.Flags().StringVarP(&runOutputPath, "output", "o", "", "Write the evidence bundle to this file instead of stdout")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose/debug output")
	runCommand.Flags().BoolVar(&runJSONLog, "json-log", false, "JSON format for logging")

	_ = runCommand.MarkFlagRequired("profile")

	rootCmd.AddCommand(runCommand)
}

func runResearchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(runConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("queries") {
		cfg.NumberOfQueries = runQueries
	}
	if runVerbose {
		cfg.Verbose = true
	}
	if runJSONLog {
		cfg.JSONLog = true
	}

	log, err := logger.New(cfg.JSONLog, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	profile, err := loadProfile(runProfilePath)
	if err != nil {
		return err
	}

	jobDescription := ""
	if runJobPath != "" {
		data, err := os.ReadFile(runJobPath)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		log.Warn("failed to connect to database, continuing without persistence", zap.Error(err))
		database = nil
	}
	if database != nil {
		defer database.Close()
	}

	p, err := buildPipeline(ctx, cfg, database, log)
	if err != nil {
		return err
	}

	// The flag can request an explicit threshold of 0; a zero in the config
	// file means unset.
	var threshold *float64
	if cmd.Flags().Changed("threshold") {
		threshold = &runThreshold
	} else if cfg.ConfidenceThreshold > 0 {
		threshold = &cfg.ConfidenceThreshold
	}

	result, err := p.Run(ctx, pipeline.Request{
		Profile:             profile,
		JobDescription:      jobDescription,
		NumberOfQueries:     cfg.NumberOfQueries,
		ConfidenceThreshold: threshold,
		CustomInstructions:  runInstructions,
	})
	if err != nil {
		return err
	}

	log.Info("research complete",
		zap.Int("citations", len(result.Bundle.Citations)),
		zap.String("run_id", result.RunID.String()))

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintQueries(result.Queries)
		printer.PrintBundle(result.Bundle)
		printer.PrintEvaluation(result.Evaluation)
	}

	return writeResult(result)
}

func loadProfile(path string) (*types.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}
	if profile.FullName == "" {
		return nil, fmt.Errorf("profile is missing full_name")
	}
	return &profile, nil
}

func writeResult(result *pipeline.Result) error {
	output := map[string]any{"bundle": result.Bundle}
	if result.Evaluation != nil {
		output["evaluation"] = result.Evaluation
	}

	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if runOutputPath == "" {
		fmt.Println(string(encoded))
		return nil
	}
	if err := os.WriteFile(runOutputPath, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
