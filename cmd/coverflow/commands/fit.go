package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/coverflow/internal/logging"
	"github.com/teranos/coverflow/stage"
)

func fitCmd(s *session) *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "fit [text]",
		Short: "Print the largest quote font size that fits a box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := stage.RegularMeasurer()
			if err != nil {
				return err
			}
			defer m.Close()

			size := m.FitText(args[0], width, height, s.cfg.FitOptions())
			s.log.V(logging.Debug).Info("text fitted", "width", width, "height", height, "size", size)
			fmt.Fprintln(cmd.OutOrStdout(), size)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", 360, "box width in pixels")
	cmd.Flags().Float64Var(&height, "height", 200, "box height in pixels")
	return cmd
}
