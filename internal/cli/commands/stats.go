package commands

import (
	"github.com/spf13/cobra"

	"github.com/smolensk-traffic/portal/internal/view"
)

// NewStatsCmd creates the stats command
func NewStatsCmd(env *Env) *cobra.Command {
	var tabName string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show this year's indicators",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tab view.Tab
				err error
			)
			if tabName == "" && env.Interactive && env.SelectTab != nil {
				tab, err = env.SelectTab()
			} else {
				tab, err = view.ParseTab(tabName)
			}
			if err != nil {
				return err
			}

			page, err := loadPage(cmd.Context(), env, env.Info.Statistics)
			if err != nil {
				return err
			}

			env.Printer.Header(tab.Title())
			if page.Data == nil {
				env.Printer.Print("No statistics available.")
				return nil
			}

			printRows(env.Printer, "", []string{"Indicator", "Value"}, view.Indicators(tab, page.Data), func(i view.Indicator) []string {
				return []string{i.Label, i.Value}
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&tabName, "tab", "", "Tab to show: dtp, evacuation or fines (prompts when interactive)")

	return cmd
}
