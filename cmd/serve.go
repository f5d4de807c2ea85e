package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sarchlab/jbodsim/mdadm"
	"github.com/sarchlab/jbodsim/monitoring"
	"github.com/sarchlab/jbodsim/script"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveOpen   bool
	serveScript string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Mount an array and serve its state over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sim, err := buildSimulation("Array")
		if err != nil {
			return err
		}

		array := mdadm.NewSyncArray(sim.array)
		if err := array.Mount(); err != nil {
			return err
		}

		port := servePort
		if !cmd.Flags().Changed("port") {
			port = sim.cfg.MonitorPort
		}

		monitor := monitoring.NewMonitor(array).
			WithPortNumber(port).
			WithOpCounter(sim.counter)
		if serveOpen || sim.cfg.OpenBrowser {
			monitor.WithBrowser()
		}

		monitor.StartServer()

		if serveScript != "" {
			if err := runWithProgress(monitor, array, serveScript); err != nil {
				fmt.Fprintf(os.Stderr, "Script failed: %v\n", err)
			}
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs

		return nil
	},
}

func runWithProgress(
	monitor *monitoring.Monitor,
	array *mdadm.SyncArray,
	path string,
) error {
	s, err := script.Load(path)
	if err != nil {
		return err
	}

	bar := monitor.CreateProgressBar(path, uint64(len(s.Steps)))
	defer monitor.CompleteProgressBar(bar)

	for i := range s.Steps {
		one := &script.Script{Name: s.Name, Steps: s.Steps[i : i+1]}

		_, err := script.Run(array, one, io.Discard)
		bar.Advance(1, err != nil)

		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"port of the monitoring server, random if 0")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"open the monitoring server in a browser")
	serveCmd.Flags().StringVar(&serveScript, "script", "",
		"run an operation script after mounting")
	rootCmd.AddCommand(serveCmd)
}
