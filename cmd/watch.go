package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/model"
	"github.com/papapumpkin/ggce/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <model-file>",
	Short: "Rebuild the hierarchy whenever the model file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("publish", false, "publish every successful rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	publish, _ := cmd.Flags().GetBool("publish")

	ctx, stop := signal.NotifyContext(s.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	s.ctx = ctx

	rebuild := func() {
		m, err := model.LoadModel(args[0])
		if err != nil {
			s.printer.Error(err.Error())
			return
		}
		sys, err := s.build(m, "")
		if err != nil {
			s.printer.Error(err.Error())
			return
		}
		s.printer.BuildSummary(sys.Report())
		if err := s.persist(sys, publish); err != nil {
			s.printer.Error(err.Error())
		}
	}

	w, err := watch.NewWatcher(args[0], s.debounce())
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	rebuild()
	s.printer.Info("watching " + w.File + " (ctrl+c to stop)")
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-w.Changes:
			if c.Kind == watch.ChangeRemoved {
				s.printer.Warn(c.File + " removed; waiting for it to reappear")
				continue
			}
			rebuild()
		case err := <-w.Errors:
			s.printer.Warn("watch: " + err.Error())
		}
	}
}
