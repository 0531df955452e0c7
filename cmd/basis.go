package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/artifact"
	"github.com/papapumpkin/ggce/internal/basisstore"
	"github.com/papapumpkin/ggce/internal/model"
)

var basisCmd = &cobra.Command{
	Use:   "basis [model-file]",
	Short: "Print the global or per-manifold basis as JSON",
	Long: `Prints the mapping from specific equation identity to matrix row. With a
model file the hierarchy is built first; with --run the basis is read from
the SQLite database given by --db.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBasis,
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List or delete bases stored in the SQLite database",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <run-id>",
	Short: "Download a published basis export from the artifact bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

func init() {
	basisCmd.Flags().Bool("local", false, "index each phonon manifold separately")
	basisCmd.Flags().String("run", "", "read the basis of a stored run instead of building")
	runsCmd.Flags().String("delete", "", "delete the stored run with this ID")
	rootCmd.AddCommand(basisCmd, runsCmd, fetchCmd)
}

func runBasis(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	local, _ := cmd.Flags().GetBool("local")
	runID, _ := cmd.Flags().GetString("run")

	var out any
	switch {
	case runID != "":
		if local {
			return fmt.Errorf("--local is not available for stored runs")
		}
		store, err := openStore(s)
		if err != nil {
			return err
		}
		defer store.Close()
		if out, err = store.GlobalBasis(s.ctx, runID); err != nil {
			return err
		}
	case len(args) == 1:
		m, err := model.LoadModel(args[0])
		if err != nil {
			return err
		}
		sys, err := s.build(m, "")
		if err != nil {
			return err
		}
		out = sys.BuildBasis(!local)
	default:
		return fmt.Errorf("a model file or --run is required")
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	store, err := openStore(s)
	if err != nil {
		return err
	}
	defer store.Close()

	if id, _ := cmd.Flags().GetString("delete"); id != "" {
		if err := store.Delete(s.ctx, id); err != nil {
			return err
		}
		s.printer.Success("deleted " + id)
		return nil
	}

	runs, err := store.Runs(s.ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tEQUATIONS\tCREATED\tMODEL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.ID, r.Equations, r.CreatedAt.Format(time.DateTime), r.Model)
	}
	return tw.Flush()
}

func runFetch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	objects, err := s.objectStore()
	if err != nil {
		return err
	}
	exp, err := artifact.Fetch(s.ctx, objects, s.cfg.Artifact.Prefix, args[0])
	if err != nil {
		return err
	}
	return exp.WriteJSON(cmd.OutOrStdout())
}

func openStore(s *session) (*basisstore.Store, error) {
	if s.cfg.BasisDB == "" {
		return nil, fmt.Errorf("no basis database: pass --db or set basis_db")
	}
	return basisstore.Open(s.ctx, s.cfg.BasisDB)
}
