package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/sensetype/internal/engine/audio"
	"github.com/dshills/sensetype/internal/exercise"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the units an exercise builds",
		Long: `Print one row per unit: its id, modality, content, the word index it
opens, the word it belongs to and that word's audio window.

Examples:
  sensetype inspect lesson.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}
}

func runInspect(cmd *cobra.Command, path string) error {
	x, err := exercise.Load(path)
	if err != nil {
		return err
	}
	seq, err := x.Build()
	if err != nil {
		return err
	}
	words, err := x.LoadTimestamps()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if x.Title != "" {
		fmt.Fprintf(out, "%s\n", x.Title)
	}
	fmt.Fprintf(out, "id %s, %d units, %d words\n\n", x.ID, seq.Len(), seq.WordCount())

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODALITY\tCONTENT\tWORD\tOWNER\tWINDOW")
	for _, u := range seq.Units() {
		word := "-"
		if u.HasWordIndex() {
			word = strconv.Itoa(u.WordIndex)
		}
		owner, window := "-", "-"
		if o, ok := seq.OwningWord(u.ID); ok {
			owner = strconv.Itoa(o)
			window = windowOf(words, o)
		}
		fmt.Fprintf(w, "%d\t%s\t%q\t%s\t%s\t%s\n", u.ID, u.Modality, u.Content, word, owner, window)
	}
	return w.Flush()
}

func windowOf(words []audio.Timestamp, index int) string {
	if index < 0 || index >= len(words) {
		return "?"
	}
	ts := words[index]
	return fmt.Sprintf("%.2f-%.2f", ts.Start, ts.End)
}
