// Package cli provides the xsorter command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexballas/xsorter/config"
	"github.com/alexballas/xsorter/logging"
	"github.com/alexballas/xsorter/session"
)

// Version is set by the main package at startup.
var Version = "v0.1.0-dev"

// GUIFunc starts the desktop window on dir ("" for none) and blocks until it is closed.
type GUIFunc func(ctx context.Context, cfg *config.Config, log *logging.Logger, dir string) error

// env carries what the persistent pre-run resolved for the subcommands.
type env struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logging.Logger
}

func (e *env) session() *session.Session {
	return session.New(nil, e.cfg.Extensions, e.log)
}

// NewRootCmd creates the root command. Running it without a subcommand opens the GUI.
func NewRootCmd(gui GUIFunc) *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "xsorter [dir]",
		Short: "Put the images of a folder into a chosen order",
		Long: `xsorter shows the images of a folder as a grid of thumbnails. Drag them into the
order you want, save that order, and apply it to copy the files with sequence-number
prefixes ("00@beach.jpg", "01@sunset.jpg", ...).

Without a subcommand the graphical interface is started.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(e.cfgFile)
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if e.verbose {
				level = "debug"
			}
			e.cfg = cfg
			e.log = logging.New(level, cfg.Logging.Format, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, e, gui, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&e.cfgFile, "config", "c", "", "Configuration file path (default "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.Version = Version

	rootCmd.AddCommand(newGUICmd(e, gui))
	rootCmd.AddCommand(newListCmd(e))
	rootCmd.AddCommand(newMoveCmd(e))
	rootCmd.AddCommand(newCommitCmd(e))

	return rootCmd
}

// Execute runs the command tree with a context cancelled on SIGINT/SIGTERM.
func Execute(gui GUIFunc) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd(gui)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
