package cmd

import (
	"fmt"
	"os"

	"github.com/sarchlab/jbodsim/script"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [script.yaml]",
	Short: "Run an operation script against a fresh array",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		s, err := script.Load(args[0])
		if err != nil {
			return err
		}

		sim, err := buildSimulation("Array")
		if err != nil {
			return err
		}

		name := s.Name
		if name == "" {
			name = args[0]
		}
		fmt.Printf("Running %s on %s\n", name, sim.cfg.Geometry())

		_, err = script.Run(sim.array, s, os.Stdout)

		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
