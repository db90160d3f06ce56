// Package commands implements the coverflow command line.
package commands

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/teranos/coverflow/internal/config"
	"github.com/teranos/coverflow/internal/logging"
)

// session carries what the root command loaded for its subcommands.
type session struct {
	configPath string
	verbosity  int
	cfg        config.Config
	log        logr.Logger
}

// Execute runs the command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	s := &session{log: logr.Discard()}

	root := &cobra.Command{
		Use:          "coverflow",
		Short:        "Cover-flow testimonial carousel",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(s.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbosity") {
				cfg.Log.Verbosity = s.verbosity
			}
			s.cfg = cfg
			s.log = logging.New(cfg.Log.Verbosity, os.Stderr)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "config file (default coverflow.toml in ~/.config/coverflow or .)")
	root.PersistentFlags().IntVarP(&s.verbosity, "verbosity", "v", 0, "log verbosity: 0 info, 1 debug, 2 trace")

	root.AddCommand(runCmd(s), framesCmd(s), fitCmd(s))
	return root
}
