package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the known observatory sites",
	Args:  cobra.NoArgs,
	RunE:  runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	if err := loadConfig(configPath); err != nil {
		return err
	}
	reg, err := buildRegistry()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLON\tLAT\tELEV (m)\tTIMEZONE")
	for _, s := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\t%.5f\t%.5f\t%.0f\t%s\n",
			s.ID, s.Name, s.LonDeg, s.LatDeg, s.ElevationM, s.TimezoneName())
	}
	return tw.Flush()
}
