package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/combinatorics"
	"github.com/papapumpkin/ggce/internal/model"
)

var enumerateCmd = &cobra.Command{
	Use:   "enumerate <model-file>",
	Short: "List the legal phonon configurations of a model",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnumerate,
}

func init() {
	enumerateCmd.Flags().Bool("count", false, "print only the counts per phonon number")
	rootCmd.AddCommand(enumerateCmd)
}

func runEnumerate(cmd *cobra.Command, args []string) error {
	m, err := model.LoadModel(args[0])
	if err != nil {
		return err
	}
	cat, err := cloud.Enumerate(m)
	if err != nil {
		return err
	}

	countOnly, _ := cmd.Flags().GetBool("count")
	out := cmd.OutOrStdout()
	for _, nb := range cat.PhononCounts() {
		fmt.Fprintf(out, "%d\t%d\n", nb, len(cat[nb]))
		if countOnly {
			continue
		}
		for _, c := range cat[nb] {
			fmt.Fprintf(out, "\t%s\n", c.ID())
		}
	}
	fmt.Fprintf(out, "total\t%d\n", cat.Len())

	if m.NTypes() == 1 && m.MaxPerSite == 0 {
		want := combinatorics.GeneralizedEquations(min(m.AbsoluteExtent, m.Extent[0]), m.Number[0])
		if want != cat.Len() {
			return fmt.Errorf("enumerated %d configurations, closed form predicts %d", cat.Len(), want)
		}
	}
	return nil
}
