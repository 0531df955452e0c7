package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/model"
	"github.com/papapumpkin/ggce/internal/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <sweep-file>",
	Short: "Build the hierarchy for every point of a parameter sweep",
	Long: `Expands a sweep file (.toml or .yaml) into its parameter points and builds
each one. Points that share truncation parameters reuse the cached
configuration catalog. With --db and --publish every point is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().Bool("publish", false, "publish every point to the configured artifact bucket")
	sweepCmd.Flags().Bool("dry-run", false, "list the points without building")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	sw, err := sweep.Load(args[0])
	if err != nil {
		return err
	}
	if sw.Info != "" {
		s.printer.Info(sw.Info)
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	publish, _ := cmd.Flags().GetBool("publish")

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	points := sw.Points()
	for _, pt := range points {
		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", pt.Index, pt.Label())
			continue
		}
		if err := s.ctx.Err(); err != nil {
			return err
		}
		m, err := model.New(pt.Params)
		if err != nil {
			return fmt.Errorf("point %d (%s): %w", pt.Index, pt.Label(), err)
		}
		sys, err := s.build(m, fmt.Sprintf("%s-%03d", name, pt.Index))
		if err != nil {
			return fmt.Errorf("point %d (%s): %w", pt.Index, pt.Label(), err)
		}
		s.printer.SweepPoint(pt.Index, len(points), pt.Label(), sys.Report())
		for _, w := range sys.Report().Warnings {
			s.printer.Warn(w)
		}
		if err := s.persist(sys, publish); err != nil {
			return err
		}
	}
	if !dryRun {
		hits, misses := s.cache.Stats()
		s.printer.Info(fmt.Sprintf("%d point(s) built, enumeration cache %d hit(s) %d miss(es)", len(points), hits, misses))
	}
	return nil
}
