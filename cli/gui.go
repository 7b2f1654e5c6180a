package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newGUICmd(e *env, gui GUIFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "gui [dir]",
		Short: "Open the sorting window",
		Long: `Open the sorting window, optionally on a folder.

Example:
  xsorter gui ~/Pictures/holiday`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, e, gui, args)
		},
	}
}

func runGUI(cmd *cobra.Command, e *env, gui GUIFunc, args []string) error {
	if gui == nil {
		return errors.New("this build has no graphical interface")
	}
	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	return gui(cmd.Context(), e.cfg, e.log, dir)
}
