// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dalzilio/dvn/internal/config"
	"github.com/dalzilio/dvn/internal/logging"
)

// --- Global Command Variables ---
var (
	configPath string
	logLevel   string
	logFormat  string
	sample     []string
	queryVars  []string
	policyOut  bool
	graphDot   bool
	statsOut   bool
	dotOutput  string
	listenAddr string

	cfg    config.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:           "dvn",
		Short:         "Exact inference in Bayesian and decision networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configPath); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			logger, err = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			return err
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query [file|-]",
		Short: "Runs a JSON query request (MPE, MAP or DECISION) and prints the response",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runQuery, // Defined in cmd_query.go
	}

	mpeCmd = &cobra.Command{
		Use:   "mpe <network>",
		Short: "Computes the most probable explanation of the evidence",
		Args:  cobra.ExactArgs(1),
		RunE:  runMPE, // Defined in cmd_network.go
	}

	mapCmd = &cobra.Command{
		Use:   "map <network>",
		Short: "Computes the most probable assignment of the query variables",
		Args:  cobra.ExactArgs(1),
		RunE:  runMAP, // Defined in cmd_network.go
	}

	solveCmd = &cobra.Command{
		Use:   "solve <network>",
		Short: "Solves a decision network and applies its policy to a sample",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve, // Defined in cmd_network.go
	}

	orderCmd = &cobra.Command{
		Use:   "order <network>",
		Short: "Prints the elimination order computed from the interaction graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runOrder, // Defined in cmd_network.go
	}

	dotCmd = &cobra.Command{
		Use:   "dot <network>",
		Short: "Prints the network in the DOT format of Graphviz",
		Args:  cobra.ExactArgs(1),
		RunE:  runDot, // Defined in cmd_network.go
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serves the JSON query protocol over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(queryCmd)

	rootCmd.AddCommand(mpeCmd)
	mpeCmd.Flags().StringSliceVarP(&sample, "evidence", "e", nil, "observed variable, as name=state (repeatable)")
	mpeCmd.Flags().BoolVar(&statsOut, "stats", false, "print the statistics of the computation")

	rootCmd.AddCommand(mapCmd)
	mapCmd.Flags().StringSliceVarP(&sample, "evidence", "e", nil, "observed variable, as name=state (repeatable)")
	mapCmd.Flags().StringSliceVarP(&queryVars, "query", "q", nil, "query variables (comma separated)")
	mapCmd.Flags().BoolVar(&statsOut, "stats", false, "print the statistics of the computation")

	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringSliceVarP(&sample, "sample", "s", nil, "observed variable, as name=state (repeatable)")
	solveCmd.Flags().BoolVar(&policyOut, "policy", false, "print the decision functions")
	solveCmd.Flags().BoolVar(&statsOut, "stats", false, "print the statistics of the computation")

	rootCmd.AddCommand(orderCmd)
	orderCmd.Flags().BoolVar(&graphDot, "dot", false, "print the interaction graph in the DOT format")

	rootCmd.AddCommand(dotCmd)
	dotCmd.Flags().StringVarP(&dotOutput, "output", "o", "", "output file (\"-\" for the standard output)")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides the configuration)")
}
