package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/hierarchy"
	"github.com/papapumpkin/ggce/internal/model"
)

var buildCmd = &cobra.Command{
	Use:   "build <model-file>",
	Short: "Build and verify the equation hierarchy of a model",
	Long: `Loads a model file (.toml, .yaml or .hcl), builds the closed hierarchy of
equations, verifies closure and prints a summary. The basis can be written as
JSON, stored in SQLite (--db) and published to an S3-compatible bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("json", "", "write the basis export as JSON to this file (- for stdout)")
	f.Bool("publish", false, "publish the basis to the configured artifact bucket")
	f.Bool("visualize", false, "print the equations to stdout")
	f.Bool("generalized", false, "with --visualize, print generalized equations")
	f.Bool("full", false, "with --visualize, print coefficients, phases and propagators")
	f.String("run-id", "", "run identifier (default: model fingerprint)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := model.LoadModel(args[0])
	if err != nil {
		return err
	}
	runID, _ := cmd.Flags().GetString("run-id")
	if s.cfg.Verbose {
		s.printer.Banner(m)
	}

	sys, err := s.build(m, runID)
	if err != nil {
		return err
	}
	s.printer.BuildSummary(sys.Report())

	if visualize, _ := cmd.Flags().GetBool("visualize"); visualize {
		generalized, _ := cmd.Flags().GetBool("generalized")
		full, _ := cmd.Flags().GetBool("full")
		if err := sys.Visualize(cmd.OutOrStdout(), generalized, full); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("json"); path != "" {
		if err := writeExport(cmd.OutOrStdout(), path, sys); err != nil {
			return err
		}
	}
	publish, _ := cmd.Flags().GetBool("publish")
	return s.persist(sys, publish)
}

func writeExport(stdout io.Writer, path string, sys *hierarchy.System) error {
	if path == "-" {
		return sys.Export().WriteJSON(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := sys.Export().WriteJSON(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
