package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/ctxlog"
	"github.com/papapumpkin/ggce/internal/explore"
	"github.com/papapumpkin/ggce/internal/model"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <model-file>",
	Short: "Browse the built equations interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		// Log lines would corrupt the alternate screen.
		s.ctx = ctxlog.WithLogger(s.ctx, ctxlog.Discard())

		m, err := model.LoadModel(args[0])
		if err != nil {
			return err
		}
		sys, err := s.build(m, "")
		if err != nil {
			return err
		}
		return explore.Run(sys)
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
