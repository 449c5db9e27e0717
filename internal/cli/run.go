package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/sensetype/internal/app"
	"github.com/dshills/sensetype/internal/config"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Fresh bool
}

// NewRunCommand creates the interactive run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Open an exercise in the terminal",
		Long: `Open an exercise in the terminal and practice it.

Progress is saved as you go and restored the next time the same exercise
is opened. The exercise file is reloaded when it changes on disk.

Keys:
  Esc, Ctrl-C   quit
  Ctrl-P        pause audio
  Left, Right   move the cursor
  Tab           complete the current word

Examples:
  sensetype run lesson.yaml
  sensetype run --fresh lesson.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "ignore saved progress")

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command, path string) error {
	// The terminal belongs to the UI, so logs go to a file unless one is set.
	if opts.Config.Log.File == "" {
		opts.Config.Log.File = filepath.Join(config.DataDir(), "sensetype.log")
	}
	logger, err := opts.logger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{
		Path:   path,
		Config: opts.Config,
		Logger: logger,
		Fresh:  opts.Fresh,
	})
	if err != nil {
		_ = logger.Sync()
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}
