package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ambuflow/ambuflow/config"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured vehicles with their derived class",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := cfg.Vehicles()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTAFF\tEQUIPMENT\tSUPPLIES\tCOST\tCLASS")
	for _, v := range fleet {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.0f\t%s\n",
			v.ID, v.Staff, v.Equipment, v.Supplies, v.OperationalCost, v.Class)
	}
	return w.Flush()
}
