// Package cmd provides the command-line interface of jbodsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	envFile   string
	traceName string
	jsonTrace string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jbodsim",
	Short: "jbodsim simulates a JBOD disk array behind a linear address space.",
	Long: `jbodsim simulates a bank of disks that is driven by packed ` +
		`operation words, and an array manager that maps linear byte ` +
		`addresses onto disks and blocks. It can run operation scripts, ` +
		`dump blocks and serve the array state over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "",
		"env file to load settings from (default .env if present)")
	rootCmd.PersistentFlags().StringVar(&traceName, "trace", "",
		"record operations into the given SQLite database name")
	rootCmd.PersistentFlags().StringVar(&jsonTrace, "json-trace", "",
		"write operations as a JSON array into the given file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"log session operations and transfers")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
