package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/model"
	"github.com/papapumpkin/ggce/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model-file>...",
	Short: "Check model files without building",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := ui.New()
		failed := 0
		for _, path := range args {
			p, err := model.Load(path)
			if err != nil {
				printer.Error(err.Error())
				failed++
				continue
			}
			errs := model.Validate(p)
			printer.ValidateResult(path, errs)
			if len(errs) > 0 {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d model file(s) invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
