package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"amm-mev-lab/internal/domain"
)

// RunBatch executes runs independent simulation runs concurrently. Run i uses
// seed cfg.Seed+i, so a batch is as reproducible as a single run. Results are
// returned in seed order; the first failing run cancels the rest.
func (r *Runner) RunBatch(ctx context.Context, cfg domain.Config, runs int) ([]*domain.Results, error) {
	if runs <= 1 {
		res, err := r.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return []*domain.Results{res}, nil
	}

	results := make([]*domain.Results, runs)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < runs; i++ {
		runCfg := cfg
		runCfg.Seed = cfg.Seed + int64(i)
		g.Go(func() error {
			res, err := r.Run(ctx, runCfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
