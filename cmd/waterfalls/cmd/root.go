package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cascadelabs/waterfalls/internal/viewer"
	"github.com/cascadelabs/waterfalls/pkg/waterfalls"
)

var (
	unitCode       string
	showThreadID   bool
	separatorLines bool
	saveImage      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "waterfalls [directory]",
	Short: "Visualize waterfalls timing reports",
	Long: `waterfalls loads the timing reports written by instrumented programs
(waterfalls.json plus any waterfalls.<pid>.json from child processes)
and draws them as a waterfall chart, one row per timer.

The report directory defaults to the current working directory, or to
$WATERFALLS_DIRECTORY when set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viewer.New(reportDirectory(args))
		v.Unit = unitCode
		v.ShowThreadID = showThreadID
		v.SeparatorLines = separatorLines
		v.SaveImage = saveImage
		return v.Render()
	},
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&unitCode, "unit", "u", "",
		"time unit override: ns, us, ms, s, m or h (aliases like msec accepted)")
	rootCmd.PersistentFlags().BoolVarP(&showThreadID, "thread-id", "t", false,
		"annotate every timer with its thread id")
	rootCmd.Flags().BoolVarP(&separatorLines, "lines", "l", false,
		"draw separator lines between chart rows")
	rootCmd.Flags().BoolVarP(&saveImage, "image", "i", false,
		"save the chart as waterfalls.svg instead of opening a view")
}

// initConfig reads in environment variables
func initConfig() {
	viper.AutomaticEnv()
	viper.BindEnv("directory", waterfalls.EnvDirectory)
}

// reportDirectory resolves the directory: positional argument, then
// WATERFALLS_DIRECTORY, then the working directory.
func reportDirectory(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if dir := viper.GetString("directory"); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
