package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"eduforge-api/internal/domain/entity"
)

func init() {
	catalogCmd.AddCommand(catalogStagesCmd, catalogStepsCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the built-in catalogs",
}

var catalogStagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List pipeline stages in order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "POSITION\tID\tTITLE")
		for _, s := range entity.PipelineStages() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", s.Position, s.ID, s.Title)
		}
		return w.Flush()
	},
}

var catalogStepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List wizard steps and the fields each one collects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tID\tTITLE\tFIELDS")
		for i, s := range entity.WizardSteps() {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, s.ID, s.Title, strings.Join(entity.StepFields[s.ID], ","))
		}
		return w.Flush()
	},
}
