package main

import (
	"fmt"
	"os"

	"crossplan/cmd/crossplan/commands"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crossplan",
	Short: "Crossplan - queueing-theory capacity planner for crossing traffic",
	Long: `Crossplan analyzes timestamped arrival data from a street crossing and
recommends server capacities using queueing theory. It merges annotation
exports, computes arrival variability, evaluates multi-server queueing
performance, and generates costed resource scenarios.`,
}

func main() {

	rootCmd.AddCommand(commands.MergeCmd)

	rootCmd.AddCommand(commands.CombineCmd)

	rootCmd.AddCommand(commands.StatsCmd)

	rootCmd.AddCommand(commands.AnalyzeCmd)

	rootCmd.AddCommand(commands.PlanCmd)

	rootCmd.AddCommand(commands.SensitivityCmd)

	rootCmd.AddCommand(commands.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "config file (YAML)")
}
