package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/varghesereji/VOPlanner/internal/coord"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Look up catalog names on SIMBAD and print their ICRS position",
	Long: `Resolve one or more object names through the configured SIMBAD TAP
endpoint. Names containing spaces must be quoted.

Examples:
  voplanner resolve M31 "Barnard's Star"
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if err := loadConfig(configPath); err != nil {
		return err
	}

	res := buildResolver()
	out := cmd.OutOrStdout()

	failed := 0
	for _, name := range args {
		result := res.Resolve(cmd.Context(), name)
		pos, ok := result.Position()
		if !ok {
			failed++
			fmt.Fprintf(out, "%s\tunresolved (%s)\n", name, result.Reason())
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t(%.6f, %+.6f deg)\n",
			name, coord.FormatRA(pos.RA(), 2), coord.FormatDec(pos.Dec(), 2), pos.RADeg(), pos.DecDeg())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d names unresolved", failed, len(args))
	}
	return nil
}
