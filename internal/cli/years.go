package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taxengine/internal/core"
)

func newYearsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List supported tax years and the states each one covers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, y := range a.registry.Years() {
				ym, err := a.registry.YearModule(y)
				if err != nil {
					return err
				}
				codes := ym.StateCodes()
				names := make([]string, len(codes))
				for i, c := range codes {
					names[i] = string(c)
				}
				if _, err := fmt.Fprintf(w, "%d  standard deduction %s single / %s joint  states (%d): %s\n",
					y, ym.StandardDeduction(core.Single), ym.StandardDeduction(core.MarriedFilingJointly),
					len(codes), strings.Join(names, " ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
