package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dircompare/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the dircompare configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(globalFlags.ConfigFile)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			bandwidth := "unlimited"
			if cfg.Performance.BandwidthLimit > 0 {
				bandwidth = humanize.Bytes(uint64(cfg.Performance.BandwidthLimit)) + "/s"
			}
			exclude := "none"
			if len(cfg.Exclude) > 0 {
				exclude = strings.Join(cfg.Exclude, ", ")
			}

			fmt.Fprintf(w, "Algorithm: %s\n", cfg.Compare.Algorithm)
			fmt.Fprintf(w, "Max Size: %s\n", humanize.IBytes(uint64(cfg.Compare.SizeCeiling)))
			fmt.Fprintf(w, "Chunk Size: %s\n", humanize.IBytes(uint64(cfg.Performance.ChunkSize)))
			fmt.Fprintf(w, "Bandwidth: %s\n", bandwidth)
			fmt.Fprintf(w, "Exclude: %s\n", exclude)
			fmt.Fprintf(w, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(w, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}

			if err := config.Init(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}
