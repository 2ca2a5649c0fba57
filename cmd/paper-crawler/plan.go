package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-crawler/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Export the built-in search plan as YAML",
	Long: `Plan writes the compiled-in search expressions and keyword taxonomy as
YAML. Edit the file and pass it back with --plan (or plan.file in the
config) to change what the crawler searches for. Without a file argument
the plan is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := plan.Default()
		if len(args) == 1 {
			if err := plan.WriteFile(args[0], p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote plan to %s\n", args[0])
			return nil
		}
		data, err := plan.Marshal(p)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
