package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/alexballas/xsorter/commit"
)

func absOrSame(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// newProgressBar mirrors the look of the transfer bars used elsewhere: counts instead of
// bytes, written to w.
func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func newCommitCmd(e *env) *cobra.Command {
	var dryRun, overwrite, quiet bool

	cmd := &cobra.Command{
		Use:   "commit <order-file> <target>",
		Short: "Copy images into a target with sequence-number prefixes",
		Long: `Copy every image of a saved order into target, named "<n>@<original name>" with n
zero-padded to the width the number of images needs.

The target is an existing directory or an S3 location (s3://bucket/prefix). Existing files
are skipped unless --overwrite is given (or commit.overwrite is set in the config).

Example:
  xsorter commit holiday.xsorter.json ~/Pictures/holiday-sorted
  xsorter commit holiday.xsorter.json s3://albums/2024/holiday --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := e.session()
			if err := s.LoadOrder(args[0]); err != nil {
				return err
			}
			plan, err := s.PlanCommit()
			if err != nil {
				return err
			}

			sink, err := commit.OpenSink(ctx, args[1], e.cfg.S3)
			if err != nil {
				return err
			}

			opts := commit.Options{
				DryRun:    dryRun,
				Overwrite: overwrite || e.cfg.Commit.Overwrite,
				Logger:    e.log,
			}

			out := cmd.OutOrStdout()
			if !quiet && len(plan.Items) > 0 {
				bar := newProgressBar(cmd.ErrOrStderr(), len(plan.Items), "Committing to "+sink.String())
				opts.Progress = func(done, _ int, _ commit.Result) {
					_ = bar.Set(done)
				}
				defer bar.Finish()
			}

			summary, err := commit.Apply(ctx, plan, sink, opts)
			if err != nil {
				return err
			}

			if dryRun {
				for _, r := range summary.Results {
					fmt.Fprintf(out, "%s\t%s -> %s\n", r.Status, r.Item.Source, r.Item.Target)
				}
				fmt.Fprintf(out, "%d would be copied\n", summary.DryRun)
			}
			fmt.Fprintf(out, "%d copied, %d skipped, %d failed\n", summary.Copied, summary.Skipped, summary.Failed)
			return summary.Err()
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only show what would be copied")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files that already exist in the target")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}
