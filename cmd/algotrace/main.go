// Package main implements the algotrace CLI: a thin, scriptable front-end
// over the engine library for running a submission against one challenge
// (or a catalog of them) from a terminal instead of the browser UI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/algotrace/engine/challenge"
	"github.com/algotrace/engine/instrument"
	"github.com/algotrace/engine/internal/catalog"
	"github.com/algotrace/engine/internal/obslog"
	"github.com/algotrace/engine/orchestrator"
	"github.com/algotrace/engine/pattern"
	"github.com/algotrace/engine/trace"
)

var (
	logLevel          string
	timeout           time.Duration
	maxLoopIterations int
	maxRecursionDepth int
	difficultyFlag    string

	logger obslog.Logger = obslog.NopLogger()
)

var rootCmd = &cobra.Command{
	Use:   "algotrace",
	Short: "Run untrusted JavaScript submissions against algorithmic challenges",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logger = obslog.NewConsole(level)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <challenge.json> <submission.js>",
	Short: "Run one submission against one challenge and print the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadChallenge(args[0])
		if err != nil {
			return err
		}
		submission, err := catalog.LoadSubmission(args[1])
		if err != nil {
			return err
		}

		logger.Info("running submission", "challengeId", c.ID)

		res := orchestrator.RunTest(submission, c, runOptions())
		printTestResult(cmd, res)
		if !res.Passed {
			os.Exit(1)
		}
		return nil
	},
}

var runAllCmd = &cobra.Command{
	Use:   "run-all <challenges.json> <submission.js>",
	Short: "Run one submission against every challenge in a catalog file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		challenges, err := catalog.LoadChallenges(args[0])
		if err != nil {
			return err
		}
		submission, err := catalog.LoadSubmission(args[1])
		if err != nil {
			return err
		}

		var results []trace.TestResult
		if difficultyFlag != "" {
			results = orchestrator.RunTestsByDifficulty(submission, challenges, challenge.Difficulty(difficultyFlag), runOptions())
		} else {
			results = orchestrator.RunTests(submission, challenges, runOptions())
		}

		failures := 0
		for _, r := range results {
			printTestResult(cmd, r)
			if !r.Passed {
				failures++
			}
		}

		logger.Info("run-all complete", "total", len(results), "failures", failures)
		if failures > 0 {
			os.Exit(1)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <submission.js>",
	Short: "Pre-flight validate a submission without executing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		submission, err := catalog.LoadSubmission(args[0])
		if err != nil {
			return err
		}
		valid, errMsg := instrument.Validate(submission)
		if !valid {
			fmt.Fprintln(cmd.OutOrStdout(), "invalid:", errMsg)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns <submission.js> <pattern> [pattern...]",
	Short: "Check whether a submission matches any of the named patterns",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		submission, err := catalog.LoadSubmission(args[0])
		if err != nil {
			return err
		}
		res := pattern.ValidatePatterns(submission, challenge.PatternRequirement{
			AnyOf:        args[1:],
			ErrorMessage: "none of the requested patterns matched",
		})
		if !res.Valid {
			fmt.Fprintln(cmd.OutOrStdout(), "no match:", res.Error)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "match")
		return nil
	},
}

func runOptions() orchestrator.Options {
	return orchestrator.Options{
		Timeout:           timeout,
		MaxLoopIterations: maxLoopIterations,
		MaxRecursionDepth: maxRecursionDepth,
		Logger:            logger,
	}
}

func printTestResult(cmd *cobra.Command, res trace.TestResult) {
	out := cmd.OutOrStdout()
	status := "FAIL"
	if res.Passed {
		status = "PASS"
	}
	fmt.Fprintf(out, "[%s] %s (%.1fms, %d steps)\n", status, res.TestID, res.ExecutionTime, len(res.Steps))
	if res.Error != "" {
		fmt.Fprintf(out, "  error: %s\n", res.Error)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "Wall-clock budget per run")
	rootCmd.PersistentFlags().IntVar(&maxLoopIterations, "max-loop-iterations", 100000, "Loop iteration cap")
	rootCmd.PersistentFlags().IntVar(&maxRecursionDepth, "max-recursion-depth", 1000, "Recursion depth cap")

	runAllCmd.Flags().StringVar(&difficultyFlag, "difficulty", "", "Restrict run-all to one difficulty (easy, medium, hard)")

	rootCmd.AddCommand(runCmd, runAllCmd, checkCmd, patternsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
