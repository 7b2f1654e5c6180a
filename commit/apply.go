package commit

import (
	"context"
	"fmt"
	"os"

	"github.com/alexballas/xsorter/logging"
)

// Status is the outcome for one item.
type Status string

const (
	StatusCopied  Status = "copied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
	StatusDryRun  Status = "dry-run"
)

// Result records what happened to one item.
type Result struct {
	Item   Item
	Status Status
	Err    error
}

// Summary is returned by Apply.
type Summary struct {
	Target  string
	Results []Result
	Copied  int
	Skipped int
	Failed  int
	DryRun  int
}

// Err joins the per-item failures, or returns nil.
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	for _, r := range s.Results {
		if r.Err != nil {
			return fmt.Errorf("%d of %d files failed, first: %s: %w", s.Failed, len(s.Results), r.Item.Target, r.Err)
		}
	}
	return nil
}

// Options tune Apply.
type Options struct {
	// DryRun reports what would be copied without touching the sink.
	DryRun bool
	// Overwrite replaces targets that already exist; otherwise they are skipped.
	Overwrite bool
	// Progress, if set, is called after every item.
	Progress func(done, total int, r Result)
	Logger   *logging.Logger
}

// Apply copies the plan's items into sink one after another. A failing item does not stop the
// rest; cancelling ctx does, and its error is returned with the partial summary.
func Apply(ctx context.Context, plan Plan, sink Sink, opts Options) (Summary, error) {
	log := logging.OrNop(opts.Logger).With("target", sink.String())
	summary := Summary{Target: sink.String(), Results: make([]Result, 0, len(plan.Items))}

	for i, item := range plan.Items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res := applyItem(ctx, item, sink, opts)
		switch res.Status {
		case StatusCopied:
			summary.Copied++
			log.Debug().Str("file", item.Target).Msg("copied")
		case StatusSkipped:
			summary.Skipped++
			log.Info().Str("file", item.Target).Msg("target exists, skipped")
		case StatusDryRun:
			summary.DryRun++
			log.Debug().Str("file", item.Target).Msg("would copy")
		case StatusFailed:
			summary.Failed++
			log.Error().Err(res.Err).Str("file", item.Source).Msg("copy failed")
		}
		summary.Results = append(summary.Results, res)

		if opts.Progress != nil {
			opts.Progress(i+1, len(plan.Items), res)
		}
	}

	log.Info().
		Int("copied", summary.Copied).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("dry_run", summary.DryRun).
		Msg("commit finished")
	return summary, nil
}

func applyItem(ctx context.Context, item Item, sink Sink, opts Options) Result {
	if !opts.Overwrite {
		exists, err := sink.Exists(ctx, item.Target)
		if err != nil {
			return Result{Item: item, Status: StatusFailed, Err: err}
		}
		if exists {
			return Result{Item: item, Status: StatusSkipped}
		}
	}

	f, err := os.Open(item.Source)
	if err != nil {
		return Result{Item: item, Status: StatusFailed, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{Item: item, Status: StatusFailed, Err: err}
	}

	if opts.DryRun {
		return Result{Item: item, Status: StatusDryRun}
	}

	if err := sink.Put(ctx, item.Target, f, info.Size()); err != nil {
		return Result{Item: item, Status: StatusFailed, Err: err}
	}
	return Result{Item: item, Status: StatusCopied}
}
