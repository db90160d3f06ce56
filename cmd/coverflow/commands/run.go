package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/teranos/coverflow/internal/logging"
	"github.com/teranos/coverflow/internal/tui"
)

func runCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the carousel in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the terminal belongs to the program, so logs only go to a file
			log := logr.Discard()
			if s.cfg.Log.File != "" {
				f, err := tea.LogToFile(s.cfg.Log.File, "coverflow")
				if err != nil {
					return err
				}
				defer f.Close()
				log = logging.New(s.cfg.Log.Verbosity, f)
			}

			opts := tui.DefaultOptions()
			opts.CellWidth = s.cfg.Terminal.CellWidth
			opts.MinCardWidth = s.cfg.Terminal.MinCardWidth
			opts.MaxCardWidth = s.cfg.Terminal.MaxCardWidth
			opts.Breakpoints = s.cfg.Breakpoints()
			opts.Logger = log

			programOpts := []tea.ProgramOption{tea.WithAltScreen()}
			if s.cfg.Terminal.Mouse {
				programOpts = append(programOpts, tea.WithMouseCellMotion())
			}

			model := tui.New(s.cfg.Deck(), opts, s.cfg.EngineOptions()...)
			_, err := tea.NewProgram(model, programOpts...).Run()
			return err
		},
	}
}
