package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/sensetype/internal/app"
	"github.com/dshills/sensetype/internal/engine"
	"github.com/dshills/sensetype/internal/engine/unit"
	"github.com/dshills/sensetype/internal/input/key"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Keys  string
	Fresh bool
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Feed scripted keys to an exercise",
		Long: `Feed a key sequence to an exercise without a terminal and print the
resulting state. Progress is saved as in an interactive session.

Bare characters are typed as-is. Named keys use angle brackets:
<Space>, <BS>, <Tab>, <CR>, <Left>, <Right>.

Examples:
  sensetype replay lesson.yaml --keys "Hello<Space>world"
  sensetype replay lesson.yaml --fresh --keys "<Tab><Tab><BS>"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Keys, "keys", "k", "", "key sequence to replay (required)")
	_ = cmd.MarkFlagRequired("keys")
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "ignore saved progress")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, path string) error {
	keys, err := key.ParseSequence(opts.Keys)
	if err != nil {
		return fmt.Errorf("--keys: %w", err)
	}
	logger, err := opts.logger()
	if err != nil {
		return err
	}

	application, err := app.New(cmd.Context(), app.Options{
		Path:     path,
		Config:   opts.Config,
		Logger:   logger,
		Fresh:    opts.Fresh,
		Headless: true,
	})
	if err != nil {
		_ = logger.Sync()
		return err
	}
	defer application.Close()

	state, err := application.Replay(cmd.Context(), keys)
	if err != nil {
		return err
	}
	printState(cmd, state, application.Engine().Stats())
	return nil
}

func printState(cmd *cobra.Command, state engine.State, stats engine.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cursor:    %s\n", state.Cursor)
	fmt.Fprintf(out, "complete:  %t\n", state.Complete)
	fmt.Fprintf(out, "progress:  %d/%d (%.0f%%)\n", stats.Committed, stats.Units, stats.Progress()*100)
	fmt.Fprintf(out, "accuracy:  %d correct, %d incorrect (%.0f%%)\n", stats.Correct, stats.Incorrect, stats.Accuracy()*100)

	modalities := make([]unit.Modality, 0, len(stats.ByModality))
	for m := range stats.ByModality {
		modalities = append(modalities, m)
	}
	sort.Slice(modalities, func(i, j int) bool { return modalities[i] < modalities[j] })
	for _, m := range modalities {
		t := stats.ByModality[m]
		fmt.Fprintf(out, "  %-8s %d/%d\n", m, t.Committed, t.Units)
	}
}
