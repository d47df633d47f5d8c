package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "yatriguard",
	Short: "YatriGuard - real-time travel safety monitoring client",
	Long: `YatriGuard keeps a safety-monitoring session synchronized with the
YatriGuard analysis service over a persistent websocket.

It streams location and motion-sensor data upstream and mirrors the
service's safety analyses, trip status, and alerts into a live local view.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(listScenariosCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
