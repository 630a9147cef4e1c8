package krippendorff

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"kalpha/adapters/logging"
	"kalpha/domain/reliability"
)

type iteration struct {
	alpha float64
	err   error
}

// bootstrap resamples pairable items with replacement and recomputes alpha for
// every iteration. Each iteration draws from its own derived stream, so the
// returned samples are identical for any worker count.
func (e *Estimator) bootstrap(ctx context.Context, work reliability.Matrix, valid []int, opts Options) ([]float64, []string, error) {
	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	} else {
		e.diag.Debug("no bootstrap seed given, using clock", "seed", seed)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	inner := &Estimator{streams: e.streams, diag: logging.Nop()}
	innerOpts := opts
	innerOpts.Bootstrap = 0
	innerOpts.ReturnItems = false
	innerOpts.ItemLabels = nil
	innerOpts.KeepOrientation = true

	results := make([]iteration, opts.Bootstrap)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < opts.Bootstrap; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			r, err := e.streams.Stream(gctx, "bootstrap", i, seed)
			if err != nil {
				return err
			}

			sample := make(reliability.Matrix, len(valid))
			for k := range sample {
				sample[k] = work[valid[r.Intn(len(valid))]]
			}

			res, err := inner.Compute(gctx, sample, innerOpts)
			if err != nil {
				results[i] = iteration{alpha: math.NaN(), err: err}
				return nil
			}
			results[i] = iteration{alpha: res.Alpha}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	samples := make([]float64, 0, opts.Bootstrap)
	failed, undefined := 0, 0
	for i, it := range results {
		switch {
		case it.err != nil:
			failed++
			e.diag.Debug("bootstrap iteration failed", "iteration", i, "error", it.err)
		case math.IsNaN(it.alpha):
			undefined++
		default:
			samples = append(samples, it.alpha)
		}
	}

	var warnings []string
	if len(samples)*2 < opts.Bootstrap {
		msg := fmt.Sprintf("only %d of %d bootstrap iterations succeeded", len(samples), opts.Bootstrap)
		e.diag.Warn(msg, "failed", failed, "undefined", undefined)
		warnings = append(warnings, msg)
	}
	return samples, warnings, nil
}
