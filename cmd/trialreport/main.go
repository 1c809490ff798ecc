package main

import (
	"os"

	"github.com/locvowork/trial_report/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outDir     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "trialreport",
	Short: "Build field-trial reports from bitrix and web exports",
	Long: `trialreport reconciles the bitrix program export with the web field-report
export and writes a bureau-grouped xlsx report.

Available commands:
  merge  - reconcile both exports and write the report
  format - lay out an already reconciled table`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitLogging(logger.Options{Level: logLevel, Console: true})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "report_config.yaml", "report configuration file")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", ".", "output folder")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")

	rootCmd.AddCommand(mergeCmd, formatCmd)
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
