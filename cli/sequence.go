package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexballas/xsorter/sequence"
	"github.com/alexballas/xsorter/session"
)

// openSession opens dir, or the directory recorded in orderFile with its order applied.
func openSession(e *env, dir, orderFile string) (*session.Session, error) {
	s := e.session()
	if orderFile != "" {
		if err := s.LoadOrder(orderFile); err != nil {
			return nil, err
		}
		if dir != "" && s.Directory() != absOrSame(dir) {
			return nil, fmt.Errorf("order file %s belongs to %s, not %s", orderFile, s.Directory(), dir)
		}
		return s, nil
	}
	if err := s.SetDirectory(dir); err != nil {
		return nil, err
	}
	return s, nil
}

func printSequence(w io.Writer, c *sequence.Collection, numbered bool) {
	names := c.Names()
	if numbered {
		names = sequence.SequenceNames(names)
	}
	for i, name := range names {
		fmt.Fprintf(w, "%d\t%s\n", i, name)
	}
}

func newListCmd(e *env) *cobra.Command {
	var orderFile string
	var numbered bool

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "Print the images of a folder in sequence order",
		Long: `Print the images of a folder in sequence order, one per line with its row.

Example:
  # Current scan order
  xsorter list ~/Pictures/holiday

  # Order from a saved file, shown with the names a commit would produce
  xsorter list --order holiday.xsorter.json --numbered`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" && orderFile == "" {
				return fmt.Errorf("a directory or --order is required")
			}

			s, err := openSession(e, dir, orderFile)
			if err != nil {
				return err
			}
			printSequence(cmd.OutOrStdout(), s.Collection(), numbered)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderFile, "order", "", "Saved order file to apply")
	cmd.Flags().BoolVar(&numbered, "numbered", false, "Show committed file names")
	return cmd
}

// parseTarget accepts a row number or "end".
func parseTarget(s string) (int, error) {
	if strings.EqualFold(strings.TrimSpace(s), "end") {
		return sequence.EndOfSequence, nil
	}
	row, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid --before %q: want a row number or \"end\"", s)
	}
	return row, nil
}

func newMoveCmd(e *env) *cobra.Command {
	var orderFile, saveFile, rows, before string

	cmd := &cobra.Command{
		Use:   "move [dir]",
		Short: "Move rows of a sequence and optionally save the result",
		Long: `Move one or more rows in front of another row, or to the end, exactly like a
drag and drop in the window would.

Rows use the same "|"-separated form as the window's drag payload.

Example:
  # Move rows 2 and 5 to the front and save the order
  xsorter move ~/Pictures/holiday --rows "2|5" --before 0 --save holiday.xsorter.json

  # Continue from a saved order, move row 0 to the end and save in place
  xsorter move --order holiday.xsorter.json --rows 0 --before end --save holiday.xsorter.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" && orderFile == "" {
				return fmt.Errorf("a directory or --order is required")
			}

			sourceRows, err := sequence.DecodeRows(sequence.RowMimeType, rows)
			if err != nil {
				return err
			}
			target, err := parseTarget(before)
			if err != nil {
				return err
			}

			s, err := openSession(e, dir, orderFile)
			if err != nil {
				return err
			}
			if err := s.Collection().MoveRows(sourceRows, target); err != nil {
				return err
			}
			e.log.Debug().Str("rows", rows).Int("target", target).Msg("rows moved")

			if saveFile != "" {
				if err := s.SaveOrderAs(saveFile); err != nil {
					return err
				}
			}
			printSequence(cmd.OutOrStdout(), s.Collection(), false)
			return nil
		},
	}

	cmd.Flags().StringVar(&orderFile, "order", "", "Saved order file to start from")
	cmd.Flags().StringVar(&saveFile, "save", "", "Write the resulting order to this file")
	cmd.Flags().StringVar(&rows, "rows", "", `Rows to move, e.g. "2|5"`)
	cmd.Flags().StringVar(&before, "before", "end", `Row to insert before, or "end"`)
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}
