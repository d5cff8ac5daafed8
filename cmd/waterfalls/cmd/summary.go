package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cascadelabs/waterfalls/internal/viewer"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [directory]",
	Short: "Print a per-timer summary table",
	Long: `Load the timing reports from the given directory and print one table
row per timer group: completed blocks, wall-clock total, thread CPU
total and the covered time span.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viewer.New(reportDirectory(args))
		v.Unit = unitCode
		v.ShowThreadID = showThreadID
		return v.WriteSummary(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
