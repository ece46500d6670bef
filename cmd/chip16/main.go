// Command chip16 disassembles and executes Chip16 ROMs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chip16vm/config"
	"chip16vm/isa"
	"chip16vm/opcode"
	"chip16vm/rom"
	"chip16vm/vm"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "chip16",
		Short: "Chip16 virtual machine: disassemble and execute ROMs",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (defaults to the platform config dir)")

	rootCmd.AddCommand(disassembleCmd(), executeCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func loadROM(path string) (*rom.Rom, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied ROM path
	if err != nil {
		return nil, fmt.Errorf("opening rom: %w", err)
	}
	defer f.Close()

	r, err := rom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing rom: %w", err)
	}
	return r, nil
}

func disassembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disassemble <rom>",
		Short: "Disassemble a ROM from its start address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadROM(args[0])
			if err != nil {
				return err
			}

			for addr := uint32(r.StartAddress); addr+4 <= uint32(len(r.Content)); addr += 4 {
				raw := uint32(r.Content[addr]) |
					uint32(r.Content[addr+1])<<8 |
					uint32(r.Content[addr+2])<<16 |
					uint32(r.Content[addr+3])<<24
				w := opcode.Word(raw)

				inst, derr := isa.Decode(w)
				mnemonic := ""
				if derr == nil {
					mnemonic = vm.Disassemble(inst)
				}
				fmt.Printf("%#06x  %#08x  %s\n", addr, raw, mnemonic)
			}
			return nil
		},
	}
}

func executeCmd(configPath *string) *cobra.Command {
	var maxCycles uint64
	var seed int64

	cmd := &cobra.Command{
		Use:   "execute <rom>",
		Short: "Run a ROM to completion or fatal error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if maxCycles == 0 {
				maxCycles = cfg.Execution.MaxCycles
			}

			r, err := loadROM(args[0])
			if err != nil {
				return err
			}

			m := vm.NewMachine(seed)
			m.MaxCycles = maxCycles
			m.Statistics.Enabled = cfg.Execution.EnableStats
			m.Trace.Enabled = cfg.Execution.EnableTrace

			if err := m.LoadROM(r); err != nil {
				return err
			}

			if err := m.Run(); err != nil {
				return fmt.Errorf("execution halted: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "cycle limit (0 = use config default)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "RNG seed for RND")
	return cmd
}
