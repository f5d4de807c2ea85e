package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dumpDisk  int
	dumpBlock int
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Mount a fresh array and hex dump one block",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		sim, err := buildSimulation("Array")
		if err != nil {
			return err
		}

		if err := sim.array.Mount(); err != nil {
			return err
		}

		data, err := sim.bank.Peek(dumpDisk, dumpBlock)
		if err != nil {
			return err
		}

		sig, err := sim.array.Signature(blockAddr(sim, dumpDisk, dumpBlock))
		if err != nil {
			return err
		}

		fmt.Printf("disk %d block %d signature %016x\n", dumpDisk, dumpBlock, sig)
		fmt.Print(hex.Dump(data))

		return sim.array.Unmount()
	},
}

func blockAddr(s *simulation, disk, block int) uint32 {
	g := s.cfg.Geometry()
	return uint32(uint64(disk)*g.DiskSize() + uint64(block*g.BlockSize))
}

func init() {
	dumpCmd.Flags().IntVar(&dumpDisk, "disk", 0, "disk to dump")
	dumpCmd.Flags().IntVar(&dumpBlock, "block", 0, "block to dump")
	rootCmd.AddCommand(dumpCmd)
}
