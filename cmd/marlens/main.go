// Command marlens audits MAR page geometry dumps and writes the resulting
// hold-rule checklist.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jherrick/marlens"
	"github.com/jherrick/marlens/geometry"
	"github.com/jherrick/marlens/report"
)

var (
	verbose        bool
	optionsPath    string
	checklistPath  string
	jsonPath       string
	headerDate     string
	headerHall     string
	includeMedText bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "marlens",
	Short: "marlens - MAR hold-rule audit",
	Long: `marlens recovers the schedule grid from a MAR geometry dump and
classifies every scheduled dose against the prescriber's hold rules.

Doses that cannot be resolved deterministically are excluded with an
auditable skip reason, never guessed at.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit [geometry.json]",
	Short: "Audit a geometry dump and render the checklist",
	Long: `Reads a page-geometry JSON dump (positioned tokens and vector
marks per page), runs the audit, and renders the checklist to stdout or
to --checklist. A document with no recognizable schedule grid is reported
as data, not failure.

Example:
  marlens audit pages.json --hall Holaday --date 08-14-2026 --json out.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	opts := marlens.DefaultOptions()
	if optionsPath != "" {
		var err error
		opts, err = marlens.LoadOptions(optionsPath)
		if err != nil {
			return err
		}
	}
	opts.IncludeMedText = opts.IncludeMedText || includeMedText

	src := geometry.JSONSource{Path: args[0]}
	res, warnings, err := marlens.FromSource(src).
		Options(opts).
		Audit(cmd.Context())
	if err != nil && !errors.Is(err, marlens.ErrNoScheduleGrid) {
		return err
	}
	if errors.Is(err, marlens.ErrNoScheduleGrid) {
		logger.Warn("no schedule grid found", zap.String("source", args[0]))
	}
	for _, w := range warnings {
		logger.Warn("parse warning",
			zap.String("code", w.Code),
			zap.Int("page", w.Page),
			zap.String("message", w.Message))
	}

	s := res.Summary
	logger.Info("audit complete",
		zap.String("source", args[0]),
		zap.Int("reviewed", s.Reviewed),
		zap.Int("hold_miss", s.HoldMiss),
		zap.Int("held_appropriate", s.HeldAppropriate),
		zap.Int("compliant", s.Compliant),
		zap.Int("dcd", s.DCd),
		zap.Int("skipped_bad_time", s.SkippedBadTime),
		zap.Int("skipped_ambiguous", s.SkippedAmbiguous),
		zap.Int("skipped_rejected_rules", s.SkippedRejectedRules),
		zap.Int("skipped_implausible", s.SkippedImplausible))

	header := report.Header{Date: headerDate, Hall: headerHall, Source: args[0]}
	ropts := report.Options{IncludeMedText: opts.IncludeMedText}

	out := os.Stdout
	if checklistPath != "" {
		f, err := os.Create(checklistPath)
		if err != nil {
			return fmt.Errorf("creating checklist file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.RenderChecklist(out, header, s, res.Records, ropts); err != nil {
		return fmt.Errorf("rendering checklist: %w", err)
	}

	if jsonPath != "" {
		f, err := os.Create(jsonPath)
		if err != nil {
			return fmt.Errorf("creating json export: %w", err)
		}
		defer f.Close()
		if err := report.WriteJSON(f, header, s, res.Records, res.Skips, ropts); err != nil {
			return fmt.Errorf("writing json export: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	auditCmd.Flags().StringVar(&optionsPath, "options", "", "YAML options file overriding defaults")
	auditCmd.Flags().StringVar(&checklistPath, "checklist", "", "write the checklist here instead of stdout")
	auditCmd.Flags().StringVar(&jsonPath, "json", "", "also write a JSON export here")
	auditCmd.Flags().StringVar(&headerDate, "date", "", "audit date for the report header (MM-DD-YYYY)")
	auditCmd.Flags().StringVar(&headerHall, "hall", "", "hall name for the report header")
	auditCmd.Flags().BoolVar(&includeMedText, "include-med-text", false, "include medication text in reports")
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
